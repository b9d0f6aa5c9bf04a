package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"merlin/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Tool paths default to stubs that do not exist; use WithStubScript to
// install fakes. The simulated progress tick is shortened so tests run fast.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Tools.FFmpeg = filepath.Join(base, "bin", "ffmpeg")
	cfgVal.Tools.FFprobe = filepath.Join(base, "bin", "ffprobe")
	cfgVal.Tools.Whisper = filepath.Join(base, "bin", "whisper")
	cfgVal.Whisper.TickIntervalMS = 50

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStubScript writes an executable shell script named name into the
// config's bin directory. name should be one of ffmpeg, ffprobe or whisper.
func WithStubScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		b.t.Helper()
		target := WriteScript(b.t, filepath.Join(b.baseDir, "bin"), name, body)
		switch name {
		case "ffmpeg":
			b.cfg.Tools.FFmpeg = target
		case "ffprobe":
			b.cfg.Tools.FFprobe = target
		case "whisper":
			b.cfg.Tools.Whisper = target
		}
	}
}

// WithSpeedFactor overrides the recognizer speed factor.
func WithSpeedFactor(factor float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Whisper.SpeedFactor = factor
	}
}

// WithStubbedBinaries writes no-op executables for the provided names and
// prepends their directory to PATH for the duration of the test.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "whisper"}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		for _, name := range names {
			WriteScript(b.t, binDir, name, "exit 0\n")
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
