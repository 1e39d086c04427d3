package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies a build or template condition.
type Code string

const (
	// CodeTemplateNotFound indicates no root record of the required type
	// exists in the template.
	CodeTemplateNotFound Code = "template-not-found"
	// CodeChainIncomplete indicates the extension-dictionary chain is
	// missing a hop; annotative support is disabled for the run.
	CodeChainIncomplete Code = "chain-incomplete"
	// CodeMissingPlacementField indicates a request lacks a position or text.
	CodeMissingPlacementField Code = "missing-placement-field"
	// CodeTransplantFieldMissing indicates an expected field was absent
	// during cloning; the field keeps its template value.
	CodeTransplantFieldMissing Code = "transplant-field-missing"
	// CodeUnknownClass indicates a request names a classification with no
	// configured layer/color pair.
	CodeUnknownClass Code = "unknown-class"
	// CodeSkipRequested indicates a request carries the configured skip
	// classification.
	CodeSkipRequested Code = "skip-requested"
	// CodeParse indicates the template or request stream could not be read.
	CodeParse Code = "parse-error"
)

// Build describes a build error with a stable code and optional detail
// context (a handle, a field code, a request index).
//
//nolint:errname // public API name uses build domain term.
type Build struct {
	Code    string
	Message string
	Detail  string
}

// List is an error that wraps one or more build errors.
type List []Build //nolint:errname // public API name, keep for symmetry with Build.

// Error returns a compact summary of the build errors.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no build errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
	}
}

// Error formats the build error for display, including code and detail.
func (b Build) Error() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("[%s] %s", b.Code, b.Message))
	if b.Detail != "" {
		s.WriteString(fmt.Sprintf(" (%s)", b.Detail))
	}
	return s.String()
}

// New builds a Build error with a code, message, and optional detail.
func New(code Code, msg, detail string) Build {
	return Build{Code: string(code), Message: msg, Detail: detail}
}

// Newf formats a message and builds a Build error.
func Newf(code Code, detail, format string, args ...any) Build {
	return New(code, fmt.Sprintf(format, args...), detail)
}

// Is reports whether err carries the given code, directly or inside a List.
func Is(err error, code Code) bool {
	for _, b := range AsBuilds(err) {
		if b.Code == string(code) {
			return true
		}
	}
	return false
}

// AsBuilds extracts build errors from an error returned by build helpers.
func AsBuilds(err error) []Build {
	if err == nil {
		return nil
	}

	var b Build
	if errors.As(err, &b) {
		return []Build{b}
	}
	var bp *Build
	if errors.As(err, &bp) && bp != nil {
		return []Build{*bp}
	}

	var list List
	if errors.As(err, &list) {
		return []Build(list)
	}
	var listPtr *List
	if errors.As(err, &listPtr) && listPtr != nil {
		return []Build(*listPtr)
	}

	return nil
}
