package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jobjitsu/interview-api/internal/app/recovery"
)

func writeTemplatesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing templates file: %v", err)
	}
	return path
}

func TestLoadQuestionTemplatesEmptyPathUsesDefaults(t *testing.T) {
	templates, err := LoadQuestionTemplates("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if templates != recovery.DefaultQuestionTemplates {
		t.Fatal("expected built-in defaults for empty path")
	}
}

func TestLoadQuestionTemplatesFromFile(t *testing.T) {
	path := writeTemplatesFile(t, `questions:
  - "Tell me about the {role} role."
  - "Why {company}?"
  - "Walk me through a relevant project."
`)

	templates, err := LoadQuestionTemplates(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if templates[0] != "Tell me about the {role} role." {
		t.Fatalf("unexpected first template: %q", templates[0])
	}
	if templates[2] != "Walk me through a relevant project." {
		t.Fatalf("unexpected last template: %q", templates[2])
	}
}

func TestLoadQuestionTemplatesMissingFile(t *testing.T) {
	templates, err := LoadQuestionTemplates(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	// Defaults still come back so the caller can keep running.
	if templates != recovery.DefaultQuestionTemplates {
		t.Fatal("expected defaults alongside the error")
	}
}

func TestLoadQuestionTemplatesWrongCount(t *testing.T) {
	path := writeTemplatesFile(t, `questions:
  - "Only one?"
`)

	if _, err := LoadQuestionTemplates(path); err == nil {
		t.Fatal("expected an error for wrong question count")
	}
}

func TestLoadQuestionTemplatesEmptyQuestion(t *testing.T) {
	path := writeTemplatesFile(t, `questions:
  - "A?"
  - "   "
  - "C?"
`)

	if _, err := LoadQuestionTemplates(path); err == nil {
		t.Fatal("expected an error for a blank question")
	}
}
