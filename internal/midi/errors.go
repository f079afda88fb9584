package midi

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every *Error unwraps to the sentinel of its Kind, so callers
// can use errors.Is without inspecting the structured fields.
var (
	ErrInvalidPitch      = errors.New("invalid pitch")
	ErrInvalidNoteFormat = errors.New("invalid note format")
	ErrOutOfRange        = errors.New("value out of range")
	ErrEmptySequence     = errors.New("empty sequence")
	ErrInvalidTempo      = fmt.Errorf("invalid tempo: %w", ErrOutOfRange)
	ErrInvalidNote       = errors.New("invalid note")
	ErrUnknownMood       = errors.New("unknown mood")
	ErrInvalidKey        = errors.New("invalid key")
	ErrInvalidIntensity  = fmt.Errorf("invalid intensity: %w", ErrOutOfRange)
	ErrEncodingOverflow  = errors.New("encoding overflow")
	ErrEmptyTrackSet     = errors.New("empty track set")
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// Kind classifies an Error.
type Kind int

const (
	KindInvalidPitch Kind = iota + 1
	KindInvalidNoteFormat
	KindOutOfRange
	KindEmptySequence
	KindInvalidTempo
	KindInvalidNote
	KindUnknownMood
	KindInvalidKey
	KindInvalidIntensity
	KindEncodingOverflow
	KindEmptyTrackSet
	KindUnknownInstrument
)

var kindSentinels = map[Kind]error{
	KindInvalidPitch:      ErrInvalidPitch,
	KindInvalidNoteFormat: ErrInvalidNoteFormat,
	KindOutOfRange:        ErrOutOfRange,
	KindEmptySequence:     ErrEmptySequence,
	KindInvalidTempo:      ErrInvalidTempo,
	KindInvalidNote:       ErrInvalidNote,
	KindUnknownMood:       ErrUnknownMood,
	KindInvalidKey:        ErrInvalidKey,
	KindInvalidIntensity:  ErrInvalidIntensity,
	KindEncodingOverflow:  ErrEncodingOverflow,
	KindEmptyTrackSet:     ErrEmptyTrackSet,
	KindUnknownInstrument: ErrUnknownInstrument,
}

// Error carries the structured context of a failed parse, validation or
// encoding step: which field, which value, and what was expected.
type Error struct {
	Kind     Kind
	Field    string
	Value    any
	Expected string
	// Index is the position of the offending note or token, or -1.
	Index int
	// Err is the underlying cause, if any.
	Err error
}

// NewError builds an Error with no index.
func NewError(kind Kind, field string, value any, expected string) *Error {
	return &Error{Kind: kind, Field: field, Value: value, Expected: expected, Index: -1}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(kindSentinels[e.Kind].Error())
	if e.Index >= 0 {
		fmt.Fprintf(&b, " at index %d", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s=%v", e.Field, e.Value)
	}
	if e.Expected != "" {
		fmt.Fprintf(&b, " (expected %s)", e.Expected)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{kindSentinels[e.Kind]}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsValidation reports whether err is an input problem rather than an
// internal failure.
func IsValidation(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind != KindEncodingOverflow
}

func withIndex(err error, index int) error {
	var e *Error
	if errors.As(err, &e) && e.Index < 0 {
		cp := *e
		cp.Index = index
		return &cp
	}
	return err
}
