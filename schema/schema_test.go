package schema

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/formfill/catalog"
)

type category string

type ticket struct {
	Title    string        `json:"title"`
	Priority int           `json:"priority"`
	Labels   []string      `json:"labels"`
	Due      *civil.Date   `json:"due"`
	Kind     category      `json:"kind"`
	Effort   time.Duration `json:"effort"`
}

func ticketCatalog(t *testing.T) *catalog.Catalog[ticket] {
	t.Helper()
	c, err := catalog.New(
		catalog.Scalar("Title", func(k *ticket) *string { return &k.Title }, catalog.JSONName("title"), catalog.Rules("Required", "StringLength(40)")),
		catalog.Scalar("Priority", func(k *ticket) *int { return &k.Priority }, catalog.JSONName("priority"), catalog.Rules("Range(1,5)")),
		catalog.List("Labels", func(k *ticket) *[]string { return &k.Labels }, catalog.JSONName("labels"),
			catalog.Rules("MaxLength(3)"), catalog.ItemRules("MaxLength(10)"), catalog.UniqueItems()),
		catalog.Optional("Due", func(k *ticket) **civil.Date { return &k.Due }, catalog.JSONName("due"), catalog.Description("due date")),
		catalog.Enum("Kind", func(k *ticket) *category { return &k.Kind }, catalog.StringMembers[category]("", "bug", "feature"), catalog.JSONName("kind")),
		catalog.Scalar("Effort", func(k *ticket) *time.Duration { return &k.Effort }, catalog.JSONName("effort")),
	)
	require.NoError(t, err)
	return c
}

func TestForCatalog(t *testing.T) {
	raw := ForCatalog(ticketCatalog(t), "Ticket")
	assert.Equal(t, "object", raw["type"])
	assert.Equal(t, "Ticket", raw["title"])
	assert.Equal(t, []string{"title"}, raw["required"])

	props := raw["properties"].(map[string]any)
	tests := []struct {
		name     string
		expected map[string]any
	}{
		{name: "title", expected: map[string]any{"type": "string", "maxLength": 40, "title": "Title"}},
		{name: "priority", expected: map[string]any{"type": "integer", "minimum": float64(1), "maximum": float64(5), "title": "Priority"}},
		{name: "labels", expected: map[string]any{
			"type":        []any{"array", "null"},
			"items":       map[string]any{"type": "string", "maxLength": 10},
			"uniqueItems": true,
			"maxItems":    3,
			"title":       "Labels",
		}},
		{name: "due", expected: map[string]any{
			"anyOf":       []any{map[string]any{"type": "string", "format": "date"}, map[string]any{"type": "null"}},
			"title":       "Due",
			"description": "due date",
		}},
		{name: "kind", expected: map[string]any{"enum": []any{"", "bug", "feature"}, "title": "Kind"}},
		{name: "effort", expected: map[string]any{"type": "integer", "$comment": "duration in nanoseconds", "title": "Effort"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, props[tt.name])
		})
	}
}

func TestCompileCatalogValidates(t *testing.T) {
	s, err := CompileCatalog(ticketCatalog(t), "Ticket")
	require.NoError(t, err)
	require.NotNil(t, s.Raw())

	due := civil.Date{Year: 2024, Month: time.June, Day: 1}
	valid := ticket{Title: "Printer jam", Priority: 2, Labels: []string{"hw"}, Due: &due, Kind: "bug", Effort: time.Hour}
	assert.NoError(t, s.ValidateValue(valid))
	assert.NoError(t, s.ValidateValue(ticket{Title: "x", Priority: 1}))

	tests := []struct {
		name   string
		mutate func(k *ticket)
	}{
		{name: "priority above range", mutate: func(k *ticket) { k.Priority = 9 }},
		{name: "duplicate labels", mutate: func(k *ticket) { k.Labels = []string{"a", "a"} }},
		{name: "too many labels", mutate: func(k *ticket) { k.Labels = []string{"a", "b", "c", "d"} }},
		{name: "label too long", mutate: func(k *ticket) { k.Labels = []string{"much-too-long"} }},
		{name: "unknown kind", mutate: func(k *ticket) { k.Kind = "chore" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := valid
			tt.mutate(&k)
			err := s.ValidateValue(k)
			require.Error(t, err)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	assert.Error(t, s.Validate(map[string]any{"priority": "high"}))
}

func TestCompile(t *testing.T) {
	s, err := Compile(nil)
	assert.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, s.Validate(map[string]any{}))

	_, err = Compile(map[string]any{"type": 12})
	assert.Error(t, err)
}
