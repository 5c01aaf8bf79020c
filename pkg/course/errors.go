// Package course builds the immutable process-wide registry of
// pages and steps from declarative definitions: an explicit
// two-phase design where authoring data has no side effects until
// Build validates, normalizes, and seals everything.
package course

import "fmt"

// AuthoringError reports a malformed page or step declaration.
// It indicates an error in the tutorial content, not a learner
// error, and is fatal at startup.
type AuthoringError struct {
	Page string
	Step string
	Msg  string
}

func (e *AuthoringError) Error() string {
	switch {
	case e.Page != "" && e.Step != "":
		return fmt.Sprintf("page %s, step %s: %s", e.Page, e.Step, e.Msg)
	case e.Page != "":
		return fmt.Sprintf("page %s: %s", e.Page, e.Msg)
	}
	return e.Msg
}

func authoringErr(page, stepName, format string, args ...any) *AuthoringError {
	return &AuthoringError{
		Page: page,
		Step: stepName,
		Msg:  fmt.Sprintf(format, args...),
	}
}
