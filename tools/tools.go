// Package tools exposes a form's verbs as eino tools so a tool-calling
// chat model can fill the form directly.
package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formfill"
	"github.com/tbxark/formfill/types"
)

const (
	AssignValueToolName  = "assign_value"
	AddValueToolName     = "add_value_to_collection"
	RemoveValueToolName  = "remove_value_from_collection"
	ClearValueToolName   = "clear_value"
	GetValueToolName     = "get_value"
	ResetFormToolName    = "reset_form"
	DescribeFormToolName = "describe_form"
)

type ValueInput struct {
	Field string `json:"field" jsonschema:"required,description=Name of the form field"`
	Value string `json:"value" jsonschema:"required,description=The value as the user stated it; dates and numbers may be written in words"`
}

type FieldInput struct {
	Field string `json:"field" jsonschema:"required,description=Name of the form field"`
}

type EmptyInput struct{}

// FormDescription is the output of describe_form.
type FormDescription struct {
	Fields  []types.FieldInfo       `json:"fields"`
	Missing []types.FieldInfo       `json:"missing,omitempty"`
	Errors  []types.ValidationError `json:"errors,omitempty"`
	Table   string                  `json:"table"`
}

// Set serializes tool calls on one form. A tools node may run several
// calls of one model turn concurrently; the form itself is not safe for
// concurrent use.
type Set[T any] struct {
	mu   sync.Mutex
	form *formfill.Form[T]
}

func NewSet[T any](form *formfill.Form[T]) *Set[T] {
	return &Set[T]{form: form}
}

func (s *Set[T]) Assign(ctx context.Context, input *ValueInput) (*types.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.form.Assign(input.Field, input.Value)
	return &out, nil
}

func (s *Set[T]) Add(ctx context.Context, input *ValueInput) (*types.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.form.AddToCollection(input.Field, input.Value)
	return &out, nil
}

func (s *Set[T]) Remove(ctx context.Context, input *ValueInput) (*types.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.form.RemoveFromCollection(input.Field, input.Value)
	return &out, nil
}

func (s *Set[T]) Clear(ctx context.Context, input *FieldInput) (*types.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.form.Clear(input.Field)
	return &out, nil
}

// Get reports an unknown field as a failed outcome so the model can
// correct itself.
func (s *Set[T]) Get(ctx context.Context, input *FieldInput) (*types.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.form.Get(input.Field)
	if err != nil {
		out = types.Failed(types.ActionGet, fmt.Sprintf("Unknown field %s", input.Field))
	}
	return &out, nil
}

func (s *Set[T]) Reset(ctx context.Context, _ *EmptyInput) (*types.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.form.Reset()
	return &out, nil
}

func (s *Set[T]) Describe(ctx context.Context, _ *EmptyInput) (*FormDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields := s.form.Catalog().Info()
	return &FormDescription{
		Fields:  fields,
		Missing: s.form.Missing(),
		Errors:  s.form.Validate(),
		Table:   types.FormatFields(fields),
	}, nil
}

// Tools builds one eino tool per verb.
func (s *Set[T]) Tools() ([]tool.InvokableTool, error) {
	defs := []func() (tool.InvokableTool, error){
		func() (tool.InvokableTool, error) {
			return utils.InferTool(AssignValueToolName,
				"Set a form field from the user's words. On a list field the value is added unless already present; a JSON array adds several values.",
				s.Assign)
		},
		func() (tool.InvokableTool, error) {
			return utils.InferTool(AddValueToolName, "Add one value to a list field.", s.Add)
		},
		func() (tool.InvokableTool, error) {
			return utils.InferTool(RemoveValueToolName, "Remove one value from a list field.", s.Remove)
		},
		func() (tool.InvokableTool, error) {
			return utils.InferTool(ClearValueToolName, "Clear a form field or empty a list field.", s.Clear)
		},
		func() (tool.InvokableTool, error) {
			return utils.InferTool(GetValueToolName, "Read the current value of a form field.", s.Get)
		},
		func() (tool.InvokableTool, error) {
			return utils.InferTool(ResetFormToolName, "Clear every field of the form.", s.Reset)
		},
		func() (tool.InvokableTool, error) {
			return utils.InferTool(DescribeFormToolName, "List the form fields, the required fields still missing and the current validation errors.", s.Describe)
		},
	}
	out := make([]tool.InvokableTool, 0, len(defs))
	for _, build := range defs {
		t, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to create tool: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// New builds the tools of form.
func New[T any](form *formfill.Form[T]) ([]tool.InvokableTool, error) {
	return NewSet(form).Tools()
}

// Infos collects the tool infos to bind to a tool-calling chat model.
func Infos(ctx context.Context, tools []tool.InvokableTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
