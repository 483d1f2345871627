package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"questions/internal/config"
)

func setup(t *testing.T) (corpusDir, cfgPath string) {
	t.Helper()
	root := t.TempDir()
	corpusDir = filepath.Join(root, "corpus")
	if err := os.Mkdir(corpusDir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"go.txt":     "Go was designed at Google. Goroutines make concurrency cheap.",
		"python.txt": "Python was created by Guido van Rossum. Python emphasizes readability.",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(corpusDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// A missing config file means built-in defaults.
	return corpusDir, filepath.Join(root, "config.yaml")
}

func TestRunQueryFlag(t *testing.T) {
	dir, cfg := setup(t)
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--config", cfg, "-q", "Who created Python?", dir}, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v (stderr: %s)", err, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "Python was created by Guido van Rossum." {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunPlainPrompt(t *testing.T) {
	dir, cfg := setup(t)
	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader("what makes concurrency cheap\n")
	if err := run(context.Background(), []string{"--config", cfg, "--plain", dir}, stdin, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "Query: Goroutines make concurrency cheap.\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunAutoModeWithoutTerminalPrompts(t *testing.T) {
	dir, cfg := setup(t)
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"--config", cfg, dir}, strings.NewReader("google"), &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "Go was designed at Google.") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunSentenceFlag(t *testing.T) {
	dir, cfg := setup(t)
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--config", cfg, "-s", "2", "-q", "python", dir}, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d lines, want 2: %q", len(lines), stdout.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	dir, cfg := setup(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", []string{"--config", cfg}},
		{"two arguments", []string{"--config", cfg, dir, dir}},
		{"missing directory", []string{"--config", cfg, filepath.Join(dir, "nope")}},
		{"file instead of directory", []string{"--config", cfg, filepath.Join(dir, "go.txt")}},
		{"zero files", []string{"--config", cfg, "-f", "0", dir}},
		{"conflicting modes", []string{"--config", cfg, "--tui", "--plain", dir}},
		{"unknown flag", []string{"--bogus", dir}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, strings.NewReader(""), &stdout, &stderr)
			var ue usageError
			if !errors.As(err, &ue) {
				t.Errorf("error = %v, want usageError", err)
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"--help"}, strings.NewReader(""), &stdout, &stderr); err != nil {
		t.Fatalf("run --help: %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage: questions") {
		t.Errorf("help output = %q", stderr.String())
	}
}

func TestLoadProfile(t *testing.T) {
	if _, err := loadProfile(configLanguage("english", "")); err != nil {
		t.Errorf("english: %v", err)
	}
	if _, err := loadProfile(configLanguage("klingon", "")); err == nil {
		t.Error("unknown built-in language should fail")
	}
	path := filepath.Join(t.TempDir(), "stop.txt")
	if err := os.WriteFile(path, []byte("der\ndie\ndas\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := loadProfile(configLanguage("german", path))
	if err != nil {
		t.Fatalf("file profile: %v", err)
	}
	if !p.IsStopword("die") {
		t.Error("file stopwords should be loaded")
	}
}

func configLanguage(name, stopwordsFile string) config.LanguageConfig {
	return config.LanguageConfig{Name: name, Tag: "en", StopwordsFile: stopwordsFile}
}
