package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func TestDecodeConfigDefaults(t *testing.T) {
	config, err := decodeConfig(newTestViper())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if config.DataDir != "data" || config.ArtifactsDir != "artifacts" {
		t.Fatalf("unexpected directories: %+v", config)
	}
	if config.Predict.Threshold != 0.5 {
		t.Fatalf("expected default threshold 0.5, got %v", config.Predict.Threshold)
	}
	if config.Training.Seed != 42 || config.Training.TestSize != 0.2 {
		t.Fatalf("unexpected training defaults: %+v", config.Training)
	}
	if !config.Store.Enabled {
		t.Fatalf("expected store to be enabled by default")
	}
	if config.modelPath() != filepath.Join("artifacts", "model.json") {
		t.Fatalf("unexpected model path %s", config.modelPath())
	}
}

func TestDecodeConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decision-match.yaml")
	content := `
data-dir: /srv/data
server:
  listen: ":9000"
  rate-limit: 5
training:
  seed: 7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DECISION_MATCH_ARTIFACTS_DIR", "/srv/artifacts")
	t.Setenv("DECISION_MATCH_SERVER_LISTEN", ":9100")
	t.Setenv("DECISION_MATCH_PREDICT_THRESHOLD", "0.7")

	v := newTestViper()
	if err := readConfig(v, path); err != nil {
		t.Fatalf("read config: %v", err)
	}

	config, err := decodeConfig(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if config.DataDir != "/srv/data" {
		t.Fatalf("expected data dir from file, got %q", config.DataDir)
	}
	if config.ArtifactsDir != "/srv/artifacts" {
		t.Fatalf("expected artifacts dir from env, got %q", config.ArtifactsDir)
	}
	if config.Server.Listen != ":9100" {
		t.Fatalf("expected env to win over file, got %q", config.Server.Listen)
	}
	if config.Server.RateLimit != 5 || config.Server.Burst != 10 {
		t.Fatalf("unexpected server config: %+v", config.Server)
	}
	if config.Training.Seed != 7 {
		t.Fatalf("expected seed from file, got %d", config.Training.Seed)
	}
	if config.Predict.Threshold != 0.7 {
		t.Fatalf("expected threshold from env, got %v", config.Predict.Threshold)
	}
}

func TestReadConfigOptional(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	if err := readConfig(viper.New(), ""); err != nil {
		t.Fatalf("missing default config should be ignored, got %v", err)
	}
	if err := readConfig(viper.New(), "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}
