package strokefont

import (
	"errors"
	"fmt"
)

// Sentinel errors for strokefont package.
var (
	// ErrExportInProgress is returned when an export is requested while
	// another one is still running. The request is rejected, not queued.
	ErrExportInProgress = errors.New("strokefont: export already in progress")

	// ErrCancelled is returned when the export context is cancelled between
	// characters. No partial font is produced.
	ErrCancelled = errors.New("strokefont: export cancelled")

	// ErrNoCharacters is returned when the requested character set is empty
	// after normalization.
	ErrNoCharacters = errors.New("strokefont: no characters to export")

	// ErrNilSnapshot is returned when Export is called without a snapshot.
	ErrNilSnapshot = errors.New("strokefont: nil snapshot")
)

// SerializationError is returned when the assembled outlines cannot be
// turned into a valid font. It aborts the whole export.
type SerializationError struct {
	// Stage is the export phase that failed.
	Stage Phase
	// Character is the offending character, if known.
	Character string
	// Err is the underlying cause.
	Err error
}

func (e *SerializationError) Error() string {
	if e.Character != "" {
		return fmt.Sprintf("strokefont: %s failed for %q: %v", e.Stage, e.Character, e.Err)
	}
	return fmt.Sprintf("strokefont: %s failed: %v", e.Stage, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
