package analysis

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/veonlok/Your-Search-Wrapped/internal/export"
)

// Kind is the stable category of a failed analysis.
type Kind string

const (
	KindInputFormat Kind = "InputFormatError"
	KindDataFormat  Kind = "DataFormatError"
	KindEmptyResult Kind = "EmptyResultError"
	// KindClassifier is never returned; classifier failures degrade the topic instead.
	KindClassifier Kind = "ClassifierError"
	KindInternal   Kind = "InternalError"
)

// Error is returned by AnalyzeHistory for every fatal failure.
type Error struct {
	Kind       Kind
	Message    string
	AnalysisID uuid.UUID
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// classifyLoadError maps archive and extraction failures onto kinds.
func classifyLoadError(id uuid.UUID, err error) *Error {
	switch {
	case errors.Is(err, export.ErrInvalidArchive):
		return &Error{Kind: KindInputFormat, Message: "Invalid ZIP file", AnalysisID: id, Err: err}
	case errors.Is(err, export.ErrMissingExport):
		return &Error{Kind: KindDataFormat, Message: "No conversations.json found in ZIP", AnalysisID: id, Err: err}
	case errors.Is(err, export.ErrMalformedJSON):
		return &Error{Kind: KindDataFormat, Message: "Invalid JSON in conversations.json", AnalysisID: id, Err: err}
	case errors.Is(err, export.ErrNoPrompts):
		return &Error{Kind: KindEmptyResult, Message: "No user prompts found in conversations", AnalysisID: id, Err: err}
	default:
		return &Error{Kind: KindInternal, Message: "Processing error", AnalysisID: id, Err: err}
	}
}
