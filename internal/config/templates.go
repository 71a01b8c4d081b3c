package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jobjitsu/interview-api/internal/app/recovery"
	"github.com/jobjitsu/interview-api/internal/domain"
)

// templatesFile is the YAML shape of the optional fallback-question
// override file:
//
//	questions:
//	  - "Tell me about yourself and the {role} role."
//	  - "Why {company}?"
//	  - "Walk me through a relevant project."
type templatesFile struct {
	Questions []string `yaml:"questions"`
}

// LoadQuestionTemplates reads the fallback question templates from the
// configured YAML file, or returns the built-in defaults when no file
// is configured.
func LoadQuestionTemplates(path string) ([domain.QuestionCount]string, error) {
	if path == "" {
		return recovery.DefaultQuestionTemplates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return recovery.DefaultQuestionTemplates, fmt.Errorf("reading templates file %s: %w", path, err)
	}

	var tf templatesFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return recovery.DefaultQuestionTemplates, fmt.Errorf("parsing templates file %s: %w", path, err)
	}

	if err := validateTemplates(tf); err != nil {
		return recovery.DefaultQuestionTemplates, fmt.Errorf("validating templates file %s: %w", path, err)
	}

	var out [domain.QuestionCount]string
	copy(out[:], tf.Questions)
	return out, nil
}

func validateTemplates(tf templatesFile) error {
	if len(tf.Questions) != domain.QuestionCount {
		return fmt.Errorf("expected %d questions, got %d", domain.QuestionCount, len(tf.Questions))
	}
	for i, q := range tf.Questions {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("question %d must not be empty", i+1)
		}
	}
	return nil
}
