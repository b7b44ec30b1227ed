package reconcile

import "fmt"

// ParseError is returned when configuration text is not valid JSON.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return e.Msg
}

// DraftError reports a structured draft whose text cannot be applied. The
// message is meant to be shown inline next to the draft.
type DraftError struct {
	Field string
	Msg   string
}

func (e *DraftError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// InputError reports user input that does not fit a setting's kind.
type InputError struct {
	Key string
	Msg string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Key, e.Msg)
}
