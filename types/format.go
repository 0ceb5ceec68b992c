package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/tbxark/formfill/temporal"
)

// FormatValue renders a resolved field value the way it appears in action
// descriptions. Dates use ISO 8601, durations use ISO 8601 designators and
// collections are comma separated.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case civil.Date:
		return val.String()
	case civil.Time:
		return val.String()
	case civil.DateTime:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	case time.Duration:
		return temporal.FormatDuration(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatValue(item)
		}
		return strings.Join(parts, ", ")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// FormatFields renders field metadata as a markdown table for prompt
// builders.
func FormatFields(fields []FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Label", "Kind", "Required", "Description")
	for _, field := range fields {
		kind := string(field.Kind)
		if field.Collection {
			kind = "list of " + kind
		}
		if len(field.Members) > 0 {
			kind += " (" + strings.Join(field.Members, " | ") + ")"
		}
		_ = table.Append(field.Name, field.DisplayName, kind, strconv.FormatBool(field.Required), field.Description)
	}
	_ = table.Render()
	return buf.String()
}

// FormatErrors renders validation errors as a markdown table.
func FormatErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Member", "Error")
	for _, err := range errs {
		_ = table.Append(strings.Join(err.Members, ", "), err.Message)
	}
	_ = table.Render()
	return buf.String()
}
