// The errors package provides the error primitives shared by the zone codecs.
//
// Every failure produced while reading or writing a zone file is an *Error.
// Each layer of a codec adds the context it knows about (the section, object
// or property being processed, the byte offset, the overall action) without
// changing the Kind of the underlying failure.
package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

func New(text string) error {
	return errors.New(text)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

////////////////////////////////////////////////////////////////

// Kind classifies a codec failure.
type Kind uint8

const (
	Unclassified Kind = iota
	// Bad signature, version, or fixed constant.
	FormatViolation
	// A well-formed value breaks a structural rule, such as an empty
	// property list or a size that does not add up.
	StructuralConstraintViolation
	// An offset or name is absent from the table it refers to.
	ReferenceResolutionFailure
	// The underlying stream failed.
	IOFailure
)

func (k Kind) String() string {
	switch k {
	case FormatViolation:
		return "format violation"
	case StructuralConstraintViolation:
		return "structural constraint violation"
	case ReferenceResolutionFailure:
		return "reference resolution failure"
	case IOFailure:
		return "I/O failure"
	}
	return "error"
}

// Context kinds used by the codecs.
const (
	Section           = "Section"
	Object            = "Object"
	Property          = "Property"
	FastObject        = "Fast Object"
	MeshFileReference = "Mesh File Reference"
	Reference         = "Reference"
)

// Frame locates a failure within one level of the zone structure.
type Frame struct {
	Kind string
	// Index is 1-based.
	Index int
}

func (f Frame) String() string {
	return f.Kind + " #" + strconv.Itoa(f.Index)
}

// Error is a classified failure with accumulated context.
type Error struct {
	Kind Kind
	// Action describes the top-level operation, e.g. "reading zone data
	// file".
	Action string
	// Context is ordered from the outermost level inward.
	Context []Frame
	// Offset is the byte offset of the failure, or -1 when not known.
	Offset int64

	Cause error
}

func (err *Error) Error() string {
	var s strings.Builder
	s.WriteString(err.Kind.String())
	if err.Action != "" {
		s.WriteString(" ")
		s.WriteString(err.Action)
	}
	if len(err.Context) > 0 {
		s.WriteString(" at ")
		for i, f := range err.Context {
			if i > 0 {
				s.WriteString(", ")
			}
			s.WriteString(f.String())
		}
	}
	if err.Offset >= 0 {
		fmt.Fprintf(&s, " (offset 0x%08X)", err.Offset)
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err *Error) Unwrap() error {
	return err.Cause
}

// Errorf returns an *Error of the given kind with a formatted cause. The
// offset is unset.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Offset: -1, Cause: fmt.Errorf(format, args...)}
}

// IO classifies err as an IOFailure, unless it is already an *Error. Returns
// nil if err is nil.
func IO(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: IOFailure, Offset: -1, Cause: err}
}

// classify returns a copy of err as an *Error, wrapping foreign errors as
// IOFailure.
func classify(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: IOFailure, Offset: -1, Cause: err}
	}
	c := *e
	c.Context = append([]Frame(nil), e.Context...)
	return &c
}

// Within prepends a context frame to err. index is 0-based; frames are
// rendered 1-based. Returns nil if err is nil.
func Within(err error, kind string, index int) error {
	if err == nil {
		return nil
	}
	e := classify(err)
	e.Context = append([]Frame{{Kind: kind, Index: index + 1}}, e.Context...)
	return e
}

// At records the byte offset of err, unless one is already recorded. Returns
// nil if err is nil.
func At(err error, offset int64) error {
	if err == nil {
		return nil
	}
	e := classify(err)
	if e.Offset < 0 {
		e.Offset = offset
	}
	return e
}

// Doing records the action that failed, unless one is already recorded.
// Returns nil if err is nil.
func Doing(err error, action string) error {
	if err == nil {
		return nil
	}
	e := classify(err)
	if e.Action == "" {
		e.Action = action
	}
	return e
}

// KindOf returns the Kind of err, or Unclassified if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unclassified
}

// Render formats err for display to a user. The first line is the failure
// message, followed by the action and context, and the file position when
// known.
func Render(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	var s strings.Builder
	if e.Cause != nil {
		s.WriteString(e.Cause.Error())
	} else {
		s.WriteString(e.Kind.String())
	}
	if e.Action != "" || len(e.Context) > 0 {
		s.WriteString("\n")
		s.WriteString(e.Action)
		if len(e.Context) > 0 {
			if e.Action != "" {
				s.WriteString(" at ")
			} else {
				s.WriteString("At ")
			}
			for i, f := range e.Context {
				if i > 0 {
					s.WriteString(", ")
				}
				s.WriteString(f.String())
			}
		}
		s.WriteString(".")
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&s, "\nFile position: 0x%08X", e.Offset)
	}
	return s.String()
}

////////////////////////////////////////////////////////////////

// Errors collects failures that do not stop an operation, such as the zone
// files skipped while scanning a directory.
type Errors []error

// Error returns the single message of a one-element list. Longer lists are
// written one message per line, with every line indented by a tab.
func (errs Errors) Error() string {
	if len(errs) == 0 {
		return "no errors"
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}
	var s strings.Builder
	s.WriteString("multiple errors:")
	for _, err := range errs {
		s.WriteString("\n\t")
		s.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n\t"))
	}
	return s.String()
}

// Append adds each non-nil err to the list.
func (errs Errors) Append(err ...error) Errors {
	for _, e := range err {
		if e != nil {
			errs = append(errs, e)
		}
	}
	return errs
}

// Return returns errs as an error, or nil if the list is empty.
func (errs Errors) Return() error {
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Union flattens errs into a single list. Nested Errors are spliced in place.
// The result is nil when nothing remains.
func Union(errs ...error) error {
	var list Errors
	for _, err := range errs {
		if nested, ok := err.(Errors); ok {
			list = list.Append(nested...)
			continue
		}
		list = list.Append(err)
	}
	return list.Return()
}
