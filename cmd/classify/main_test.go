package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setModelEnv(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MODEL_DIR", dir)
	t.Setenv("MODEL_VECTORIZER", "")
	t.Setenv("MODEL_CLASSIFIER", "")
	t.Setenv("MODEL_ENCODER", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRunUsageErrors(t *testing.T) {
	for _, args := range [][]string{{}, {"a.txt", "b.txt"}, {"-unknown", "a.txt"}} {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != exitUsage {
			t.Fatalf("args %v: expected exit %d, got %d", args, exitUsage, code)
		}
	}
}

func TestRunPrintsCategory(t *testing.T) {
	setModelEnv(t, filepath.Join("..", "..", "models"))
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("Recruitment, onboarding and payroll."), 0o600); err != nil {
		t.Fatalf("write resume: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-text", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if lines[0] != "HR" {
		t.Fatalf("expected HR on first line, got %q", stdout.String())
	}
	if lines[len(lines)-1] != "Recruitment, onboarding and payroll." {
		t.Fatalf("expected extracted text, got %q", stdout.String())
	}
}

func TestRunExtractionFailure(t *testing.T) {
	setModelEnv(t, filepath.Join("..", "..", "models"))
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("write resume: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{path}, &stdout, &stderr); code != exitExtraction {
		t.Fatalf("expected exit %d, got %d", exitExtraction, code)
	}
	if !strings.Contains(stderr.String(), "failed to extract text") {
		t.Fatalf("expected extraction message, got %q", stderr.String())
	}
}

func TestRunBundleFailure(t *testing.T) {
	setModelEnv(t, filepath.Join(t.TempDir(), "absent"))

	var stdout, stderr bytes.Buffer
	if code := run([]string{"cv.txt"}, &stdout, &stderr); code != exitBundle {
		t.Fatalf("expected exit %d, got %d", exitBundle, code)
	}
}

func TestRunLogsUnreadableDotEnv(t *testing.T) {
	models, err := filepath.Abs(filepath.Join("..", "..", "models"))
	if err != nil {
		t.Fatalf("resolve models dir: %v", err)
	}
	setModelEnv(t, models)
	t.Setenv("LOG_LEVEL", "warn")

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".env"), 0o700); err != nil {
		t.Fatalf("create unreadable .env: %v", err)
	}
	path := filepath.Join(dir, "cv.txt")
	if err := os.WriteFile(path, []byte("Java and Spring"), 0o600); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	if code := run([]string{path}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "dotenv_load_failed") {
		t.Fatalf("expected dotenv warning on stderr, got %q", stderr.String())
	}
	if strings.TrimSpace(stdout.String()) != "Java Developer" {
		t.Fatalf("expected Java Developer, got %q", stdout.String())
	}
}
