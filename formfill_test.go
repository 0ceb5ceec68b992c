package formfill

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/formfill/catalog"
	"github.com/tbxark/formfill/patch"
	"github.com/tbxark/formfill/recognizers"
	"github.com/tbxark/formfill/types"
)

type species string

const (
	cats      species = "Cats"
	dogs      species = "Dogs"
	guineaPig species = "GuineaPig"
)

type profile struct {
	Name     string
	Phone    string
	Age      int
	Height   float64
	Vegan    bool
	Pet      species
	Birthday *civil.Date
	WakeUp   civil.Time
	Meeting  time.Time
	Shift    time.Duration
	Scores   []int
	Pets     []species
	Nickname *string
}

// Wednesday.
var reference = time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)

var profileCatalog = catalog.MustNew(
	catalog.Scalar("Name", func(p *profile) *string { return &p.Name }, catalog.Rules("Required")),
	catalog.Scalar("Phone", func(p *profile) *string { return &p.Phone }, catalog.Rules("Phone")),
	catalog.Scalar("Age", func(p *profile) *int { return &p.Age }, catalog.Rules("Range(0,130)")),
	catalog.Scalar("Height", func(p *profile) *float64 { return &p.Height }),
	catalog.Scalar("Vegan", func(p *profile) *bool { return &p.Vegan }),
	catalog.Enum("Pet", func(p *profile) *species { return &p.Pet }, catalog.StringMembers(cats, dogs, guineaPig)),
	catalog.Optional("Birthday", func(p *profile) **civil.Date { return &p.Birthday }, catalog.Rules("Required")),
	catalog.Scalar("WakeUp", func(p *profile) *civil.Time { return &p.WakeUp }, catalog.Label("Wake up time")),
	catalog.Scalar("Meeting", func(p *profile) *time.Time { return &p.Meeting }),
	catalog.Scalar("Shift", func(p *profile) *time.Duration { return &p.Shift }),
	catalog.List("Scores", func(p *profile) *[]int { return &p.Scores }, catalog.ItemRules("Range(0,100)")),
	catalog.EnumList("Pets", func(p *profile) *[]species { return &p.Pets }, catalog.StringMembers(cats, dogs, guineaPig), catalog.UniqueItems()),
	catalog.Optional("Nickname", func(p *profile) **string { return &p.Nickname }),
)

func newProfileForm(opts ...Option) *Form[profile] {
	base := []Option{WithClock(FixedClock(reference)), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
	return New(profileCatalog, append(base, opts...)...)
}

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestAssignRoundTrip(t *testing.T) {
	type expected struct {
		value any
	}
	tests := []struct {
		name     string
		field    string
		raw      string
		expected expected
	}{
		{name: "string is trimmed", field: "Name", raw: "  Ada Lovelace ", expected: expected{value: "Ada Lovelace"}},
		{name: "integer literal", field: "Age", raw: "42", expected: expected{value: int64(42)}},
		{name: "integer words", field: "age", raw: "forty two", expected: expected{value: int64(42)}},
		{name: "float literal", field: "Height", raw: "1.75", expected: expected{value: 1.75}},
		{name: "float fraction", field: "Height", raw: "3/4", expected: expected{value: 0.75}},
		{name: "boolean", field: "Vegan", raw: "yes", expected: expected{value: true}},
		{name: "boolean no", field: "Vegan", raw: "nope", expected: expected{value: false}},
		{name: "enum exact", field: "Pet", raw: "Cats", expected: expected{value: "Cats"}},
		{name: "enum plural phrase", field: "pet", raw: "guinea pigs", expected: expected{value: "GuineaPig"}},
		{name: "enum partial overlap", field: "pet", raw: "a dog please", expected: expected{value: "Dogs"}},
		{name: "date literal", field: "Birthday", raw: "1815-12-10", expected: expected{value: date(1815, time.December, 10)}},
		{name: "date relative", field: "Birthday", raw: "next Tuesday", expected: expected{value: date(2024, time.May, 21)}},
		{name: "time literal", field: "WakeUp", raw: "07:30", expected: expected{value: civil.Time{Hour: 7, Minute: 30}}},
		{name: "time words", field: "wake up", raw: "3pm", expected: expected{value: civil.Time{Hour: 15}}},
		{name: "date-time literal", field: "Meeting", raw: "2024-05-20T09:00:00Z", expected: expected{value: time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC)}},
		{name: "date-time relative", field: "Meeting", raw: "tomorrow at 3pm", expected: expected{value: time.Date(2024, time.May, 16, 15, 0, 0, 0, time.UTC)}},
		{name: "duration designator", field: "Shift", raw: "P1DT4H", expected: expected{value: 28 * time.Hour}},
		{name: "duration clock notation", field: "Shift", raw: "1.04:00:00", expected: expected{value: 28 * time.Hour}},
		{name: "duration words", field: "Shift", raw: "an hour and a half", expected: expected{value: 90 * time.Minute}},
		{name: "nullable", field: "Nickname", raw: "Ace", expected: expected{value: "Ace"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := newProfileForm()
			out := form.Assign(tt.field, tt.raw)
			require.True(t, out.Succeeded, out.Description)
			assert.Equal(t, types.ActionAssign, out.Action)
			assert.Equal(t, tt.expected.value, out.Value)

			got, err := form.Get(tt.field)
			require.NoError(t, err)
			assert.True(t, got.Succeeded)
			assert.Equal(t, tt.expected, expected{value: got.Value})
		})
	}
}

func TestAssignUnrecognized(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		raw     string
		message string
	}{
		{name: "integer ambiguous", field: "Age", raw: "5 or 6", message: "I didn't understand 5 or 6"},
		{name: "integer words", field: "Age", raw: "lots", message: "I didn't understand lots"},
		{name: "integer overflow", field: "Age", raw: "99999999999999999999", message: "I didn't understand 99999999999999999999"},
		{name: "boolean ambiguous", field: "Vegan", raw: "yes and no", message: "I didn't understand yes and no"},
		{name: "enum", field: "Pet", raw: "hamster", message: "I didn't understand hamster as a valid Pet value"},
		{name: "date", field: "Birthday", raw: "banana", message: "I didn't understand banana"},
		{name: "time given a date", field: "WakeUp", raw: "next Tuesday", message: "I didn't understand next Tuesday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := newProfileForm()
			out := form.Assign(tt.field, tt.raw)
			assert.False(t, out.Succeeded)
			require.Len(t, out.Errors, 1)
			assert.Equal(t, tt.message, out.Errors[0].Message)
			assert.Contains(t, out.Description, "is not valid for")
			assert.Equal(t, profile{}, *form.Data())
		})
	}
}

func TestAssignUnknownField(t *testing.T) {
	form := newProfileForm()
	for _, verb := range []func() types.Outcome{
		func() types.Outcome { return form.Assign("Address", "Main St") },
		func() types.Outcome { return form.AddToCollection("Address", "Main St") },
		func() types.Outcome { return form.RemoveFromCollection("Address", "Main St") },
		func() types.Outcome { return form.Clear("Address") },
	} {
		out := verb()
		assert.False(t, out.Succeeded)
		assert.Equal(t, "Unknown field Address", out.Description)
	}
	assert.Equal(t, profile{}, *form.Data())
	assert.Empty(t, form.Changes())

	_, err := form.Get("Address")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestAssignValidationFailure(t *testing.T) {
	form := newProfileForm()
	require.True(t, form.Assign("Phone", "555 0100").Succeeded)

	out := form.Assign("Phone", "call me maybe")
	assert.False(t, out.Succeeded)
	require.NotEmpty(t, out.Errors)
	assert.Contains(t, out.Errors[0].Message, "Phone")
	assert.Equal(t, []string{"Phone"}, out.Errors[0].Members)
	assert.Equal(t, "call me maybe is not valid for Phone because: The Phone field is not a valid phone number.", out.Description)
	assert.Equal(t, "555 0100", form.Data().Phone)

	out = form.Assign("Age", "200")
	assert.False(t, out.Succeeded)
	assert.Contains(t, out.Errors[0].Message, "between 0 and 130")
	assert.Zero(t, form.Data().Age)
}

func TestAssignDescriptions(t *testing.T) {
	form := newProfileForm()
	tests := []struct {
		raw         string
		description string
	}{
		{raw: "Ada", description: "Set Name to Ada"},
		{raw: "Grace", description: "Changed Name from Ada to Grace"},
		{raw: "grace", description: "Name is already Grace"},
	}
	for _, tt := range tests {
		out := form.Assign("name", tt.raw)
		assert.True(t, out.Succeeded)
		assert.Equal(t, tt.description, out.Description)
	}
	assert.Equal(t, "Grace", form.Data().Name)
}

func TestTemporalMerge(t *testing.T) {
	form := newProfileForm()
	require.True(t, form.Assign("Meeting", "2024-05-20").Succeeded)

	out := form.Assign("Meeting", "at 3pm")
	require.True(t, out.Succeeded, out.Description)
	assert.Equal(t, time.Date(2024, time.May, 20, 15, 0, 0, 0, time.UTC), form.Data().Meeting)
	assert.Equal(t, "Changed Meeting from 2024-05-20T00:00:00Z to 2024-05-20T15:00:00Z", out.Description)

	out = form.Assign("Meeting", "next Tuesday")
	require.True(t, out.Succeeded, out.Description)
	assert.Equal(t, time.Date(2024, time.May, 21, 15, 0, 0, 0, time.UTC), form.Data().Meeting)

	require.True(t, form.Assign("Birthday", "May 7th").Succeeded)
	assert.Equal(t, date(1, time.May, 7), *form.Data().Birthday)
	require.True(t, form.Assign("Birthday", "2015-01-01").Succeeded)
	require.True(t, form.Assign("Birthday", "the 5th").Succeeded)
	assert.Equal(t, date(2015, time.January, 5), *form.Data().Birthday)
	require.True(t, form.Assign("Birthday", "fifth").Succeeded)
	assert.Equal(t, date(2015, time.January, 5), *form.Data().Birthday)

	require.True(t, form.Assign("Shift", "P2DT1H").Succeeded)
	require.True(t, form.Assign("Shift", "at 8am").Succeeded)
	assert.Equal(t, 2*24*time.Hour+8*time.Hour, form.Data().Shift)
}

func TestAddToCollection(t *testing.T) {
	form := newProfileForm()

	out := form.AddToCollection("Scores", "9999")
	assert.False(t, out.Succeeded)
	require.NotEmpty(t, out.Errors)
	assert.Contains(t, out.Errors[0].Message, "between 0 and 100")
	assert.Equal(t, []string{"Scores[0]"}, out.Errors[0].Members)
	assert.Empty(t, form.Data().Scores)

	out = form.AddToCollection("Scores", "42")
	assert.True(t, out.Succeeded)
	assert.Equal(t, "Added 42 to Scores", out.Description)
	assert.Equal(t, []int{42}, form.Data().Scores)

	out = form.AddToCollection("Scores", "many")
	assert.False(t, out.Succeeded)
	assert.Equal(t, "I didn't understand many", out.Errors[0].Message)

	out = form.AddToCollection("Name", "Ada")
	assert.False(t, out.Succeeded)
	assert.Equal(t, "Field Name is not a collection.", out.Description)

	out = form.RemoveFromCollection("Name", "Ada")
	assert.False(t, out.Succeeded)
	assert.Equal(t, "Field Name is not a collection.", out.Description)
}

func TestUniqueItems(t *testing.T) {
	form := newProfileForm()
	require.True(t, form.AddToCollection("Pets", "cats").Succeeded)
	require.True(t, form.AddToCollection("Pets", "dog").Succeeded)

	out := form.AddToCollection("Pets", "Cats")
	assert.False(t, out.Succeeded)
	require.NotEmpty(t, out.Errors)
	assert.Contains(t, out.Errors[0].Message, "Duplicate")
	assert.Contains(t, out.Errors[0].Message, "index 2")
	assert.Equal(t, []species{cats, dogs}, form.Data().Pets)

	form.Data().Pets = []species{cats, dogs, cats}
	errs := form.Validate()
	require.Len(t, errs, 3)
	assert.Equal(t, "The Name field is required.", errs[0].Message)
	assert.Equal(t, "The Birthday field is required.", errs[1].Message)
	assert.Equal(t, "Duplicate value found in Pets at index 2.", errs[2].Message)
	assert.Equal(t, []string{"Pets[2]"}, errs[2].Members)
}

func TestAssignCollection(t *testing.T) {
	form := newProfileForm()

	out := form.Assign("Scores", "[10, 20, 10, 500]")
	assert.True(t, out.Succeeded)
	assert.Equal(t, []int{10, 20}, form.Data().Scores)
	assert.Equal(t, "Added 10, 20 to Scores", out.Description)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0].Message, "between 0 and 100")

	out = form.Assign("Scores", "20")
	assert.True(t, out.Succeeded)
	assert.Equal(t, "Scores already contains 20", out.Description)
	assert.Equal(t, []int{10, 20}, form.Data().Scores)

	out = form.Assign("Pets", `["cat", "guinea pig"]`)
	assert.True(t, out.Succeeded)
	assert.Equal(t, []species{cats, guineaPig}, form.Data().Pets)
}

func TestRemoveFromCollection(t *testing.T) {
	form := newProfileForm()
	form.Assign("Pets", `["Cats", "Dogs", "GuineaPig"]`)

	out := form.RemoveFromCollection("Pets", "Dogs")
	assert.True(t, out.Succeeded)
	assert.Equal(t, "Removed Dogs from Pets", out.Description)
	assert.Equal(t, []species{cats, guineaPig}, form.Data().Pets)

	out = form.RemoveFromCollection("Pets", "Fish")
	assert.True(t, out.Succeeded)
	assert.Equal(t, []species{cats, guineaPig}, form.Data().Pets)

	form.Assign("Scores", "[1, 2, 3]")
	out = form.RemoveFromCollection("Scores", "two")
	assert.True(t, out.Succeeded)
	assert.Equal(t, []int{1, 3}, form.Data().Scores)
}

func TestClear(t *testing.T) {
	form := newProfileForm()
	form.Assign("Scores", "[1, 2]")
	form.Assign("Name", "Ada")
	form.Assign("Nickname", "Ace")

	tests := []struct {
		field       string
		description string
	}{
		{field: "Scores", description: "Cleared values from Scores"},
		{field: "Scores", description: "Cleared values from Scores"},
		{field: "Name", description: "Cleared Name"},
		{field: "Nickname", description: "Cleared Nickname"},
		{field: "Age", description: "Cleared Age"},
	}
	for _, tt := range tests {
		out := form.Clear(tt.field)
		assert.True(t, out.Succeeded)
		assert.Equal(t, types.ActionClear, out.Action)
		assert.Equal(t, tt.description, out.Description)
	}
	assert.Empty(t, form.Data().Scores)
	assert.Empty(t, form.Data().Name)
	assert.Nil(t, form.Data().Nickname)

	got, err := form.Get("Nickname")
	require.NoError(t, err)
	assert.Nil(t, got.Value)
}

func TestResetAndMissing(t *testing.T) {
	form := newProfileForm()
	infos := form.Missing()
	require.Len(t, infos, 2)
	assert.Equal(t, "Name", infos[0].Name)
	assert.Equal(t, "Birthday", infos[1].Name)
	assert.False(t, form.Complete())

	form.Assign("Name", "Ada")
	form.Assign("Birthday", "1815-12-10")
	assert.Empty(t, form.Missing())
	assert.True(t, form.Complete())

	out := form.Reset()
	assert.True(t, out.Succeeded)
	assert.Equal(t, types.ActionReset, out.Action)
	assert.Equal(t, profile{}, *form.Data())
	assert.Len(t, form.Missing(), 2)
}

func TestChangesReplay(t *testing.T) {
	form := newProfileForm()
	form.Assign("Name", "Ada")
	form.Assign("Age", "36")
	form.Assign("Vegan", "no")
	form.Assign("Birthday", "1815-12-10")
	form.Assign("Meeting", "tomorrow at 3pm")
	form.Assign("Shift", "PT8H")
	form.Assign("Scores", "[10, 20, 30]")
	form.RemoveFromCollection("Scores", "20")
	form.AddToCollection("Pets", "Cats")
	form.Assign("Nickname", "Ace")
	form.Clear("Nickname")

	replayed, err := patch.ApplyRFC6902(profile{}, form.Changes())
	require.NoError(t, err)
	if diff := cmp.Diff(*form.Data(), replayed); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapRecordsInitialState(t *testing.T) {
	birthday := date(1906, time.December, 9)
	data := &profile{Name: "Grace", Birthday: &birthday, Scores: []int{1}}
	form, err := Wrap(profileCatalog, data, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	assert.Same(t, data, form.Data())
	assert.NotEmpty(t, form.Changes())

	form.AddToCollection("Scores", "2")
	replayed, err := patch.ApplyRFC6902(profile{}, form.Changes())
	require.NoError(t, err)
	assert.Equal(t, *data, replayed)

	_, err = Wrap[profile](nil, data)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	form := newProfileForm()
	err := form.Apply([]patch.Operation{
		{Op: patch.OperationReplace, Path: "/Name", Value: "Ada"},
		{Op: patch.OperationAdd, Path: "/Scores/-", Value: float64(7)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", form.Data().Name)
	assert.Equal(t, []int{7}, form.Data().Scores)

	err = form.Apply([]patch.Operation{{Op: patch.OperationReplace, Path: "/Secret", Value: "x"}})
	assert.Error(t, err)
	assert.Equal(t, "Ada", form.Data().Name)
}

func TestCheckpoint(t *testing.T) {
	form := newProfileForm()
	form.Assign("Name", "Ada")
	form.Assign("Pets", "dogs")
	data, err := form.CreateCheckpoint()
	require.NoError(t, err)

	restored := newProfileForm()
	require.NoError(t, restored.RestoreCheckpoint(data))
	assert.Equal(t, *form.Data(), *restored.Data())
	assert.Equal(t, form.Changes(), restored.Changes())

	assert.Error(t, restored.RestoreCheckpoint([]byte(`{"version":"0.1"}`)))
	assert.Error(t, restored.RestoreCheckpoint([]byte(`not json`)))
}

type twoNumbers struct{}

func (twoNumbers) RecognizeNumber(text, locale string) []recognizers.Number {
	return []recognizers.Number{
		{Text: text, Subtype: recognizers.SubtypeInteger, Value: "1"},
		{Text: text, Subtype: recognizers.SubtypeInteger, Value: "2"},
	}
}

func TestCustomRecognizer(t *testing.T) {
	form := newProfileForm(WithNumberRecognizer(twoNumbers{}))
	out := form.Assign("Age", "1")
	assert.False(t, out.Succeeded)
	assert.Equal(t, "I didn't understand 1", out.Errors[0].Message)
}

func TestFloat32Precision(t *testing.T) {
	type gauge struct {
		Level float32
	}
	cat := catalog.MustNew(catalog.Scalar("Level", func(g *gauge) *float32 { return &g.Level }))
	form := New(cat, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	out := form.Assign("Level", "0.1")
	require.True(t, out.Succeeded)
	assert.Equal(t, "Set Level to 0.1", out.Description)
	assert.Equal(t, float32(0.1), form.Data().Level)

	out = form.Assign("Level", "0.1")
	assert.True(t, out.Succeeded)
	assert.Equal(t, "Level is already 0.1", out.Description)

	out = form.Assign("Level", "0.123456789")
	require.True(t, out.Succeeded)
	assert.Equal(t, "Changed Level from 0.1 to 0.12345679", out.Description)
	out = form.Assign("Level", "0.123456789")
	assert.Equal(t, "Level is already 0.12345679", out.Description)

	out = form.Assign("Level", "1e40")
	assert.False(t, out.Succeeded)
}

func TestNewWithoutCatalog(t *testing.T) {
	assert.PanicsWithError(t, ErrNilCatalog.Error(), func() {
		New[profile](nil)
	})
	_, err := Wrap[profile](nil, nil)
	assert.ErrorIs(t, err, ErrNilCatalog)
}

func TestUnsupportedKindPanics(t *testing.T) {
	form := newProfileForm()
	d := &catalog.Descriptor{Name: "Blob", Kind: catalog.Kind("blob")}
	assert.Panics(t, func() {
		_, _ = form.resolve(d, "x", nil, d.Context(form.Data()))
	})
}
