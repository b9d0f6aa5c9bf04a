package logging

import "strings"

// ProgressSampler thins out progress log lines: it lets a line through when
// the stage changes or the percentage enters a new bucket.
type ProgressSampler struct {
	bucketSize int
	lastStage  string
	lastBucket int
}

// NewProgressSampler returns a sampler with the given bucket width in
// percent. Non-positive widths mean 5.
func NewProgressSampler(bucketSize int) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. A negative
// percent means unknown and only stage changes pass.
func (s *ProgressSampler) ShouldLog(percent int, stage string) bool {
	if s == nil {
		return true
	}
	emit := false
	if stage = strings.TrimSpace(stage); stage != "" && stage != s.lastStage {
		s.lastStage = stage
		s.lastBucket = -1
		emit = true
	}
	if percent >= 0 {
		bucket := min(percent, 100) / s.bucketSize
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}
	return emit
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastStage = ""
	s.lastBucket = -1
}
