package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"mediasweep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.Level = "debug"

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

// WithHistory toggles the run history database on the test config.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Inventory.Enabled = enabled
	}
}

// WithNtfyTopic points run notifications at topic.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
		b.cfg.Notifications.RequestTimeout = 2
	}
}

// WithFFprobeStub installs a shell script standing in for ffprobe and points
// the config at it. outputs maps a media file's leaf name to the compact
// output printed for it; files without an entry produce no output.
func WithFFprobeStub(outputs map[string]string) ConfigOption {
	return func(b *configBuilder) {
		if runtime.GOOS == "windows" {
			b.t.Skip("ffprobe stub requires a POSIX shell")
		}
		stubDir := filepath.Join(b.baseDir, "ffprobe-stub")
		outputDir := filepath.Join(stubDir, "outputs")
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			b.t.Fatalf("mkdir stub dir: %v", err)
		}
		for name, output := range outputs {
			if err := os.WriteFile(filepath.Join(outputDir, name), []byte(output), 0o644); err != nil {
				b.t.Fatalf("write stub output %s: %v", name, err)
			}
		}
		// The media path is the last argument, after "--".
		script := "#!/bin/sh\nfor last; do :; done\nname=$(basename \"$last\")\n" +
			"if [ -f '" + outputDir + "'/\"$name\" ]; then cat '" + outputDir + "'/\"$name\"; fi\n"
		binary := filepath.Join(stubDir, "ffprobe")
		if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.cfg.FFprobe.Binary = binary
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffprobe is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
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
	return filepath.Dir(cfg.Paths.StateDir)
}
