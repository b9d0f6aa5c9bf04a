package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"merlin/internal/fileutil"
	"merlin/internal/logging"
	"merlin/internal/services"
	"merlin/internal/textutil"
)

// progressLogBucket is the percent width of progress log throttling.
const progressLogBucket = 5

// jobRun carries the mutable state of one job between stages.
type jobRun struct {
	c          *Controller
	job        Job
	baseLogger *slog.Logger
	logger     *slog.Logger
	lock       *flock.Flock
	workDir    string
	tracked    []string
	sampler    *logging.ProgressSampler
}

// begin creates the job, takes the target lock and the temp namespace, and
// enters Stage1Running. On error the job has already been published as
// Failed.
func (c *Controller) begin(ctx context.Context, kind Kind, target, name string) (*jobRun, context.Context, error) {
	id := uuid.NewString()
	ctx = services.WithJobKind(services.WithJobID(ctx, id), string(kind))
	run := &jobRun{
		c:          c,
		job:        Job{ID: id, Kind: kind, State: StateIdle, Target: target, StartedAt: c.now()},
		baseLogger: logging.WithContext(ctx, c.logger),
		sampler:    logging.NewProgressSampler(progressLogBucket),
	}
	run.logger = run.baseLogger

	lock, err := acquireLock(c.cfg.LockDir(), kind, target)
	if err != nil {
		return nil, ctx, run.abort(err)
	}
	run.lock = lock

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	run.workDir = filepath.Join(c.cfg.Paths.WorkDir,
		fmt.Sprintf("%s-%d-%s", textutil.SanitizeToken(base), run.job.StartedAt.UnixNano(), id[:8]))
	if err := os.MkdirAll(run.workDir, 0o755); err != nil {
		run.unlock()
		return nil, ctx, run.abort(fmt.Errorf("create job directory: %w", err))
	}

	run.logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("target", target),
		logging.String("work_dir", run.workDir),
	)
	if err := run.enter(StateStage1Running); err != nil {
		run.unlock()
		return nil, ctx, err
	}
	return run, ctx, nil
}

// abort fails a job that never left Idle.
func (r *jobRun) abort(err error) error {
	r.job.Err = err
	r.job.FinishedAt = r.c.now()
	if tErr := r.job.transition(StateFailed); tErr != nil {
		return tErr
	}
	r.publish()
	logging.WarnWithContext(r.logger, "job not started", "job_rejected",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.ErrorHint(err)),
		logging.String(logging.FieldImpact, "no output produced"),
	)
	return err
}

// enter moves the job to state and retags the logger with the stage name.
func (r *jobRun) enter(state State) error {
	from := r.job.State
	if err := r.job.transition(state); err != nil {
		return err
	}
	if stage := stageName(r.job.Kind, state); stage != "" {
		r.logger = r.baseLogger.With(logging.String(logging.FieldStage, stage))
	}
	r.logger.Debug("job state changed", logging.String("from", string(from)), logging.String("to", string(state)))
	r.publish()
	return nil
}

// track registers a temp path for removal during cleanup.
func (r *jobRun) track(path string) {
	r.tracked = append(r.tracked, path)
}

// logProgress writes sampled progress lines so long jobs stay visible in
// logs. It is only called from estimator callbacks, which are serialized, and
// keys the sampler on the message because job state may change concurrently.
func (r *jobRun) logProgress(logger *slog.Logger, percent int, message string) {
	if r.sampler.ShouldLog(percent, message) {
		logger.Info("progress", logging.Int("percent", percent), logging.String("message", message))
	}
}

// finish runs CleaningUp and resolves the terminal state. The returned error
// is nil on success, ErrCancelled on cancellation, and stageErr otherwise.
func (r *jobRun) finish(ctx context.Context, stageErr error) error {
	if err := r.enter(StateCleaningUp); err != nil {
		r.logger.Error("unexpected state at cleanup", logging.Error(err))
	}
	for _, path := range r.tracked {
		if err := fileutil.RemoveIfExists(path); err != nil {
			logging.WarnWithContext(r.logger, "temp file cleanup failed", "cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "stray temp file left in work directory"),
			)
		}
	}
	if err := fileutil.RemoveIfExists(r.workDir); err != nil {
		logging.WarnWithContext(r.logger, "job directory cleanup failed", "cleanup_failed",
			logging.String("path", r.workDir),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stray temp directory left in work directory"),
		)
	}
	r.unlock()

	final := StateSucceeded
	result := stageErr
	switch {
	case stageErr == nil:
	case isCancellation(ctx, stageErr):
		final = StateCancelled
		result = fmt.Errorf("%s %s: %w", r.job.Kind, filepath.Base(r.job.Target), ErrCancelled)
	default:
		final = StateFailed
	}
	r.job.Err = result
	r.job.FinishedAt = r.c.now()
	if err := r.enter(final); err != nil {
		r.logger.Error("unexpected state at finish", logging.Error(err))
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "job_"+string(final)),
		logging.Duration("elapsed", r.job.Elapsed()),
	}
	switch final {
	case StateSucceeded:
		r.logger.Info("job finished", logging.Args(attrs...)...)
	case StateCancelled:
		r.logger.Info("job cancelled", logging.Args(attrs...)...)
	default:
		attrs = append(attrs, logging.Error(result), logging.String(logging.FieldErrorHint, services.ErrorHint(result)))
		logging.ErrorWithContext(r.logger, "job failed", "job_failed", attrs...)
	}
	return result
}

func (r *jobRun) unlock() {
	if r.lock == nil {
		return
	}
	if err := r.lock.Unlock(); err != nil {
		r.logger.Warn("release job lock failed", logging.Error(err))
	}
	r.lock = nil
}

func (r *jobRun) publish() {
	if r.c.observer != nil {
		r.c.observer(r.job)
	}
}

func stageName(kind Kind, state State) string {
	switch state {
	case StateStage1Running:
		if kind == KindRender {
			return "probe"
		}
		return "extract"
	case StateStage2Running:
		if kind == KindRender {
			return "burn_in"
		}
		return "recognize"
	case StateParsingOutput:
		return "parse"
	case StateCleaningUp:
		return "cleanup"
	default:
		return ""
	}
}
