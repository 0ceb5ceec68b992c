package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{nil, ""},
		{"Bob", "Bob"},
		{true, "true"},
		{int64(42), "42"},
		{3.25, "3.25"},
		{civil.Date{Year: 2015, Month: time.May, Day: 7}, "2015-05-07"},
		{civil.Time{Hour: 15, Minute: 4}, "15:04:00"},
		{28 * time.Hour, "P1DT4H"},
		{time.Date(2015, time.May, 7, 15, 0, 0, 0, time.UTC), "2015-05-07T15:00:00Z"},
		{[]any{int64(1), "two"}, "1, two"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatValue(tt.input), fmt.Sprintf("%#v", tt.input))
	}
}

func TestCollect(t *testing.T) {
	assert.Nil(t, Collect(nil))

	err := errors.Join(
		NewValidationError("first", "Numbers[0]"),
		fmt.Errorf("wrapped: %w", NewValidationError("second", "Numbers")),
		errors.New("plain"),
	)
	got := Collect(err)
	require.Len(t, got, 3)
	assert.Equal(t, ValidationError{Message: "first", Members: []string{"Numbers[0]"}}, got[0])
	assert.Equal(t, "second", got[1].Message)
	assert.Equal(t, ValidationError{Message: "plain"}, got[2])
	assert.Equal(t, "first,second,plain", JoinMessages(got))
}

func TestOutcomeConstructors(t *testing.T) {
	ok := Success(ActionAssign, "Set Name to Bob", "Bob")
	assert.True(t, ok.Succeeded)
	assert.Equal(t, "Bob", ok.Value)

	failed := Failed(ActionAdd, "rejected", ValidationError{Message: "bad"})
	assert.False(t, failed.Succeeded)
	assert.Nil(t, failed.Value)
	assert.Len(t, failed.Errors, 1)
}

func TestFormatFields(t *testing.T) {
	assert.Empty(t, FormatFields(nil))

	out := FormatFields([]FieldInfo{
		{Name: "FavoritePet", DisplayName: "Favorite pet", Kind: KindEnum, Members: []string{"Cats", "Dogs"}},
		{Name: "Numbers", DisplayName: "Numbers", Kind: KindInteger, Collection: true, Required: true},
	})
	assert.Contains(t, out, "FavoritePet")
	assert.Contains(t, out, "enum (Cats | Dogs)")
	assert.Contains(t, out, "list of integer")
}

func TestFormatErrors(t *testing.T) {
	out := FormatErrors([]ValidationError{{Message: "The field Numbers[1] must be between 0 and 100.", Members: []string{"Numbers[1]"}}})
	assert.Contains(t, out, "Numbers[1]")
	assert.Contains(t, out, "between 0 and 100")
}
