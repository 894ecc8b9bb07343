package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage is returned for a language outside en, hi and ne.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrCollaboratorUnavailable marks a capability that was not configured.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrNoDataset is returned when no dataset index can be loaded for a language.
	ErrNoDataset = errors.New("no dataset index available")
)

// ConfigurationError reports a missing or malformed index artifact.
type ConfigurationError struct {
	Lang    string
	Dataset string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Dataset == "" {
		return fmt.Sprintf("configuration error [%s]: %v", e.Lang, e.Err)
	}
	return fmt.Sprintf("configuration error [%s_%s]: %v", e.Lang, e.Dataset, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ExtractionError reports a failed answer extraction for one document.
type ExtractionError struct {
	DocIndex int
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("answer extraction failed for document %d: %v", e.DocIndex, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
