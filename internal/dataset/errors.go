package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind categorizes pipeline errors.
type Kind string

const (
	// KindIngestion indicates the testing feed could not be fetched or did
	// not have the expected columns. Fatal at startup.
	KindIngestion Kind = "INGESTION"

	// KindConfig indicates the population table or the configuration file is
	// missing or malformed. Fatal at startup.
	KindConfig Kind = "CONFIG"

	// KindData indicates an invariant violation while transforming tables,
	// such as a non-positive population.
	KindData Kind = "DATA"

	// KindSelection indicates a requested state code has no series.
	// Recoverable: the caller may ask for different states.
	KindSelection Kind = "SELECTION"
)

// Error is the error type returned by every pipeline stage.
//
// Error carries structured fields so the CLI and the HTTP layer can report
// the failing source and the offending codes without parsing messages.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Message is a human-readable description.
	Message string

	// Source is the locator or path involved, if any.
	Source string

	// Codes lists the state codes involved (selection errors).
	Codes []string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Source != "" {
		fmt.Fprintf(&b, " (source=%s)", e.Source)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewIngestionError creates an Error for a failed fetch or schema check.
func NewIngestionError(source, message string, err error) *Error {
	return &Error{Kind: KindIngestion, Message: message, Source: source, Err: err}
}

// NewConfigError creates an Error for a bad population file or config.
func NewConfigError(source, message string, err error) *Error {
	return &Error{Kind: KindConfig, Message: message, Source: source, Err: err}
}

// NewDataError creates an Error for an invariant violation.
func NewDataError(message string, codes ...string) *Error {
	return &Error{Kind: KindData, Message: message, Codes: codes}
}

// NewSelectionError creates an Error listing unknown state codes.
// The codes are reported sorted and de-duplicated.
func NewSelectionError(unknown []string) *Error {
	seen := make(map[string]bool, len(unknown))
	codes := make([]string, 0, len(unknown))
	for _, c := range unknown {
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)
	return &Error{
		Kind:    KindSelection,
		Message: fmt.Sprintf("no data for state(s) %s", strings.Join(codes, ", ")),
		Codes:   codes,
	}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsIngestionError reports whether err is an ingestion error.
func IsIngestionError(err error) bool { return KindOf(err) == KindIngestion }

// IsConfigError reports whether err is a config error.
func IsConfigError(err error) bool { return KindOf(err) == KindConfig }

// IsDataError reports whether err is a data error.
func IsDataError(err error) bool { return KindOf(err) == KindData }

// IsSelectionError reports whether err is a selection error.
func IsSelectionError(err error) bool { return KindOf(err) == KindSelection }
