package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yml", `
regions_to_exclude:
  - ap-south-1
  - sa-east-1
checks_to_exclude:
  - opsworks
profiles:
  - staging
  - prod
workers: 2
max_retries: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.RegionsToExclude) != 2 || cfg.RegionsToExclude[1] != "sa-east-1" {
		t.Errorf("RegionsToExclude = %v", cfg.RegionsToExclude)
	}
	if !cfg.ExcludesCheck("opsworks") {
		t.Errorf("expected opsworks to be excluded")
	}
	if cfg.ExcludesCheck("elb") {
		t.Errorf("elb must not be excluded")
	}
	if got := cfg.Profiles; len(got) != 2 || got[0] != "staging" || got[1] != "prod" {
		t.Errorf("Profiles = %v; want [staging prod] in order", got)
	}
	if cfg.EffectiveWorkers() != 2 {
		t.Errorf("EffectiveWorkers = %d; want 2", cfg.EffectiveWorkers())
	}
	if cfg.EffectiveMaxRetries() != 5 {
		t.Errorf("EffectiveMaxRetries = %d; want 5", cfg.EffectiveMaxRetries())
	}
}

func TestLoad_AllSectionsOptional(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yml", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("empty config must be valid: %v", err)
	}
	if len(cfg.RegionsToExclude) != 0 || len(cfg.ChecksToExclude) != 0 || len(cfg.Profiles) != 0 {
		t.Errorf("expected empty config; got %+v", cfg)
	}
	if cfg.EffectiveWorkers() != DefaultWorkers {
		t.Errorf("EffectiveWorkers = %d; want default %d", cfg.EffectiveWorkers(), DefaultWorkers)
	}
	if cfg.EffectiveMaxRetries() != DefaultMaxRetries {
		t.Errorf("EffectiveMaxRetries = %d; want default %d", cfg.EffectiveMaxRetries(), DefaultMaxRetries)
	}
}

func TestLoad_NullSections(t *testing.T) {
	// Keys present with no value behave like missing keys.
	path := writeConfig(t, t.TempDir(), "config.yml", "regions_to_exclude:\nchecks_to_exclude:\nprofiles:\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExcludesRegion("us-east-1") {
		t.Errorf("no region should be excluded")
	}
}

func TestLoad_ExplicitZeroRetries(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yml", "max_retries: 0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EffectiveMaxRetries() != 0 {
		t.Errorf("EffectiveMaxRetries = %d; want 0", cfg.EffectiveMaxRetries())
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("err = %v; want ErrConfigNotFound", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	cases := map[string]string{
		"syntax":           "regions_to_exclude: [us-east-1\n",
		"wrong type":       "profiles: prod\n",
		"negative workers": "workers: -1\n",
		"negative retries": "max_retries: -2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yml", content)
			_, err := Load(path)
			if !errors.Is(err, ErrConfigMalformed) {
				t.Fatalf("err = %v; want ErrConfigMalformed", err)
			}
		})
	}
}

func TestLoadOrDefault_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, DefaultPath, "profiles: [fallback]\n")
	t.Chdir(dir)

	cfg, used, err := LoadOrDefault(context.Background(), "missing.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != DefaultPath {
		t.Errorf("used = %q; want %q", used, DefaultPath)
	}
	if len(cfg.Profiles) != 1 || cfg.Profiles[0] != "fallback" {
		t.Errorf("Profiles = %v; want [fallback]", cfg.Profiles)
	}
}

func TestLoadOrDefault_NoDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := LoadOrDefault(context.Background(), "missing.yml")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("err = %v; want ErrConfigNotFound", err)
	}
}

func TestLoadOrDefault_MalformedExplicitDoesNotFallBack(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, DefaultPath, "profiles: [fallback]\n")
	bad := writeConfig(t, dir, "bad.yml", "workers: nope\n")
	t.Chdir(dir)

	_, used, err := LoadOrDefault(context.Background(), bad)
	if !errors.Is(err, ErrConfigMalformed) {
		t.Fatalf("err = %v; want ErrConfigMalformed", err)
	}
	if used != bad {
		t.Errorf("used = %q; want %q", used, bad)
	}
}
