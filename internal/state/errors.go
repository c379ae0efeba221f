package state

import "strings"

// ErrorSurface is a single error slot. A new error overwrites the old one;
// only Dismiss clears it.
type ErrorSurface interface {
	Set(message string)
	Dismiss()
	Current() string
	Active() bool
}

type errorSurface struct {
	message string
}

func NewErrorSurface() ErrorSurface {
	return &errorSurface{}
}

func (e *errorSurface) Set(message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	e.message = message
}

func (e *errorSurface) Dismiss() {
	e.message = ""
}

func (e *errorSurface) Current() string {
	return e.message
}

func (e *errorSurface) Active() bool {
	return e.message != ""
}
