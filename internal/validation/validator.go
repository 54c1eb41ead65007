// Package validation provides input validation for the surfaces that accept
// user-supplied data (CLI arguments, HTTP request bodies, TUI forms).
//
// The store itself never validates: its contract is to accept whatever it is
// handed and to treat unknown ids as no-ops. Validation happens at the edge,
// before drafts reach the store, so every surface rejects the same inputs
// with the same messages.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"promptforge/internal/errors"
	"promptforge/internal/models"
)

// MaxProjectNameLength bounds project names accepted by ValidateProjectName.
const MaxProjectNameLength = 100

var projectNameRe = regexp.MustCompile(`^[a-z0-9._-]{1,100}$`)

// ValidateProjectName reports whether name is 1-100 characters drawn from
// lowercase letters, digits, '.', '_' and '-', with no run of three
// consecutive hyphens anywhere in the string.
func ValidateProjectName(name string) bool {
	// RE2 has no lookahead, so the hyphen-run rule is a separate check.
	return projectNameRe.MatchString(name) && !strings.Contains(name, "---")
}

// ValidatePromptDraft checks a new-prompt draft before it reaches the store.
func ValidatePromptDraft(draft models.PromptDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return errors.MissingFieldError("title")
	}
	if strings.TrimSpace(draft.Body) == "" {
		return errors.MissingFieldError("body")
	}
	return nil
}

// ValidateCollectionDraft checks a new-collection draft.
func ValidateCollectionDraft(draft models.CollectionDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return errors.MissingFieldError("name")
	}
	return nil
}

// ValidateLanguageCode checks the language option passed to the image
// analyzer. Accepts two-letter codes with an optional region subtag
// ("en", "ru", "pt-BR").
var languageCodeRe = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

func ValidateLanguageCode(code string) error {
	if code == "" {
		return nil
	}
	if !languageCodeRe.MatchString(code) {
		return errors.ValidationError(fmt.Sprintf("invalid language code: %q", code))
	}
	return nil
}
