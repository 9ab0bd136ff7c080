package content

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyKey         = errors.New("page, section and key are required")
	ErrMalformedContent = errors.New("stored content is not valid JSON")
)

// MalformedError names the content key whose stored JSON failed to decode.
type MalformedError struct {
	Page, Section, Key string
	Err                error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("content %s/%s/%s: %v: %v", e.Page, e.Section, e.Key, ErrMalformedContent, e.Err)
}

func (e *MalformedError) Unwrap() []error { return []error{ErrMalformedContent, e.Err} }
