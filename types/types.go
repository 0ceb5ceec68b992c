package types

// Kind is the closed set of value shapes a form field can hold.
type Kind string

const (
	KindString   Kind = "string"
	KindBoolean  Kind = "boolean"
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindEnum     Kind = "enum"
	KindDate     Kind = "date"
	KindTime     Kind = "time"
	KindDateTime Kind = "datetime"
	KindDuration Kind = "duration"
)

type FieldInfo struct {
	Name        string   `json:"name"`
	JSONPointer string   `json:"json_pointer"`
	DisplayName string   `json:"display_name"`
	Kind        Kind     `json:"kind"`
	Collection  bool     `json:"collection,omitempty"`
	Members     []string `json:"members,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
}
