/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package errs defines the closed set of error kinds the pipeline can report. Every
// failure path through the core routes through one of these, recoverable ones are
// swallowed at their boundary (IndexLoadFailure, Singular); the rest are returned to
// the caller as plain Go errors that satisfy errors.Is/errors.As against a Kind.
package errs

/*****************************************************************************************************************/

import (
	"errors"
	"fmt"
)

/*****************************************************************************************************************/

type Kind int

/*****************************************************************************************************************/

const (
	InvalidInput Kind = iota
	AllocationFailure
	DetectionEmpty
	IndexLoadFailure
	SolveFailed
	AlignFailed
	Singular
)

/*****************************************************************************************************************/

// Sentinels callers can match with errors.Is(err, errs.ErrSolveFailed), etc.
var (
	ErrInvalidInput      = &Error{Kind: InvalidInput, Message: "invalid input"}
	ErrAllocationFailure = &Error{Kind: AllocationFailure, Message: "allocation failure"}
	ErrDetectionEmpty    = &Error{Kind: DetectionEmpty, Message: "no peaks detected"}
	ErrIndexLoadFailure  = &Error{Kind: IndexLoadFailure, Message: "index failed to load"}
	ErrSolveFailed       = &Error{Kind: SolveFailed, Message: "no depth window produced a solution"}
	ErrAlignFailed       = &Error{Kind: AlignFailed, Message: "insufficient correspondences or ransac failure"}
	ErrSingular          = &Error{Kind: Singular, Message: "singular system"}
)

/*****************************************************************************************************************/

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case AllocationFailure:
		return "AllocationFailure"
	case DetectionEmpty:
		return "DetectionEmpty"
	case IndexLoadFailure:
		return "IndexLoadFailure"
	case SolveFailed:
		return "SolveFailed"
	case AlignFailed:
		return "AlignFailed"
	case Singular:
		return "Singular"
	default:
		return "Unknown"
	}
}

/*****************************************************************************************************************/

// Error is a Kind-tagged error value. Callers distinguish kinds with errors.As,
// not string matching.
type Error struct {
	Kind    Kind
	Message string
}

/*****************************************************************************************************************/

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

/*****************************************************************************************************************/

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

/*****************************************************************************************************************/

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

/*****************************************************************************************************************/

// Is lets errors.Is(err, errs.ErrSolveFailed) match any *Error sharing the same Kind,
// regardless of message.
func (e *Error) Is(target error) bool {
	var o *Error
	if !errors.As(target, &o) {
		return false
	}
	return e.Kind == o.Kind
}

/*****************************************************************************************************************/
