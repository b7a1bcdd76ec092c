package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetTablePrefix(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
	}{
		{env: "prod", want: "prod_"},
		{env: "test", want: "test_"},
		{env: "dev", want: "dev_"},
		{env: "staging", want: "dev_"},
		{env: "prod", override: "custom_", want: "custom_"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.override, func(t *testing.T) {
			t.Setenv("TABLE_PREFIX", tt.override)
			if got := getTablePrefix(tt.env); got != tt.want {
				t.Errorf("getTablePrefix(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("EXPORT_STORAGE", "MinIO")
	t.Setenv("LOG_MAX_FILES", "not-a-number")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	if cfg.TablePrefix != "test_" {
		t.Errorf("TablePrefix = %q, want test_", cfg.TablePrefix)
	}
	if cfg.ExportStorage != "minio" {
		t.Errorf("ExportStorage = %q, want minio", cfg.ExportStorage)
	}
	if cfg.LogMaxFiles != 10 {
		t.Errorf("LogMaxFiles = %d, want default 10", cfg.LogMaxFiles)
	}
	if !cfg.MinioUseSSL {
		t.Error("MinioUseSSL = false, want true")
	}
}

func TestPruneLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"manuals-2024-01-01T00-00-00.log",
		"manuals-2024-01-02T00-00-00.log",
		"manuals-2024-01-03T00-00-00.log",
		"other.log",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := pruneLogs(dir, 2); err != nil {
		t.Fatalf("pruneLogs: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, names[0])); !os.IsNotExist(err) {
		t.Errorf("oldest log should be removed, stat err = %v", err)
	}
	for _, n := range names[1:] {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Errorf("%s should be kept: %v", n, err)
		}
	}
}
