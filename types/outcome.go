package types

import (
	"errors"
	"strings"
)

const (
	ActionAssign = "AssignValue"
	ActionAdd    = "AddValueToCollection"
	ActionRemove = "RemoveValueFromCollection"
	ActionClear  = "ClearValue"
	ActionGet    = "GetValue"
	ActionReset  = "Reset"
)

// Outcome is the result of every form action. Expected failures such as an
// unknown field or a rejected value are reported here, never as errors.
type Outcome struct {
	Succeeded   bool              `json:"succeeded"`
	Action      string            `json:"action"`
	Description string            `json:"description"`
	Value       any               `json:"value,omitempty"`
	Errors      []ValidationError `json:"errors,omitempty"`
}

func Success(action, description string, value any) Outcome {
	return Outcome{
		Succeeded:   true,
		Action:      action,
		Description: description,
		Value:       value,
	}
}

func Failed(action, description string, errs ...ValidationError) Outcome {
	return Outcome{
		Action:      action,
		Description: description,
		Errors:      errs,
	}
}

// ValidationError is a single rule failure. Members names the offending
// field, or "field[i]" for a collection element.
type ValidationError struct {
	Message string   `json:"message"`
	Members []string `json:"members,omitempty"`
}

func NewValidationError(message string, members ...string) *ValidationError {
	return &ValidationError{Message: message, Members: members}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Collect flattens err, including trees built with errors.Join, into a list
// of validation errors. Errors that are not ValidationErrors keep their
// message and carry no members.
func Collect(err error) []ValidationError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []ValidationError
		for _, e := range joined.Unwrap() {
			out = append(out, Collect(e)...)
		}
		return out
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []ValidationError{*ve}
	}
	return []ValidationError{{Message: err.Error()}}
}

// Messages returns the messages of errs in order.
func Messages(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

// JoinMessages joins the messages of errs with commas.
func JoinMessages(errs []ValidationError) string {
	return strings.Join(Messages(errs), ",")
}
