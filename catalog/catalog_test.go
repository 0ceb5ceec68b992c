package catalog

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/formfill/rules"
)

type pet string

const (
	cats      pet = "Cats"
	dogs      pet = "Dogs"
	guineaPig pet = "GuineaPig"
)

type priority int

type order struct {
	Name        string
	PhoneNumber string
	Quantity    int32
	Price       *float64
	Pets        []pet
	Tags        []string
	Due         *civil.Date
	Starts      *civil.DateTime
	Level       priority
}

func orderCatalog(t *testing.T) *Catalog[order] {
	t.Helper()
	c, err := New(
		Scalar("Name", func(o *order) *string { return &o.Name }, Rules("Required")),
		Scalar("PhoneNumber", func(o *order) *string { return &o.PhoneNumber }, Rules("Phone"), JSONName("phone")),
		Scalar("Quantity", func(o *order) *int32 { return &o.Quantity }, Rules("Range(1,10)")),
		Optional("Price", func(o *order) **float64 { return &o.Price }, Description("unit price")),
		EnumList("Pets", func(o *order) *[]pet { return &o.Pets }, StringMembers(cats, dogs, guineaPig), UniqueItems()),
		List("Tags", func(o *order) *[]string { return &o.Tags }, ItemRules("StringLength(5)")),
		Optional("Due", func(o *order) **civil.Date { return &o.Due }, Label("Due date")),
		Optional("Starts", func(o *order) **civil.DateTime { return &o.Starts }),
		Enum("Level", func(o *order) *priority { return &o.Level }, []EnumMember[priority]{{Name: "Low", Value: 0}, {Name: "High", Value: 1}}),
	)
	require.NoError(t, err)
	return c
}

func TestDescriptors(t *testing.T) {
	c := orderCatalog(t)
	type expected struct {
		kind       Kind
		label      string
		nullable   bool
		collection bool
		required   bool
	}
	tests := []struct {
		name     string
		expected expected
	}{
		{name: "Name", expected: expected{kind: KindString, label: "Name", required: true}},
		{name: "PhoneNumber", expected: expected{kind: KindString, label: "Phone number"}},
		{name: "Quantity", expected: expected{kind: KindInteger, label: "Quantity"}},
		{name: "Price", expected: expected{kind: KindFloat, label: "Price", nullable: true}},
		{name: "Pets", expected: expected{kind: KindEnum, label: "Pets", collection: true}},
		{name: "Tags", expected: expected{kind: KindString, label: "Tags", collection: true}},
		{name: "Due", expected: expected{kind: KindDate, label: "Due date", nullable: true}},
		{name: "Starts", expected: expected{kind: KindDateTime, label: "Starts", nullable: true}},
		{name: "Level", expected: expected{kind: KindEnum, label: "Level"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := c.Lookup(tt.name)
			require.True(t, ok)
			got := expected{
				kind:       f.Kind,
				label:      f.Label,
				nullable:   f.Nullable,
				collection: f.Collection,
				required:   f.Required(),
			}
			assert.Equal(t, tt.expected, got)
		})
	}

	pets, _ := c.Lookup("pets")
	assert.Equal(t, []string{"Cats", "Dogs", "GuineaPig"}, pets.Members)
	assert.Equal(t, []any{"Cats", "Dogs", "GuineaPig"}, pets.JSONMembers)
	assert.NotNil(t, pets.Unique)

	level, _ := c.Lookup("level")
	assert.Equal(t, []any{float64(0), float64(1)}, level.JSONMembers)

	quantity, _ := c.Lookup("quantity")
	assert.True(t, quantity.Fits(100))
	assert.False(t, quantity.Fits(1<<40))

	phone, _ := c.Lookup("phone")
	assert.Equal(t, "/phone", phone.Pointer())

	assert.Len(t, c.Info(), 9)
	assert.Equal(t, "unit price", c.Info()[3].Description)
}

func TestLookup(t *testing.T) {
	c := orderCatalog(t)
	for _, name := range []string{"PhoneNumber", "phonenumber", "PHONENUMBER", "phone", "phone number", " phone_number "} {
		f, ok := c.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, "PhoneNumber", f.Name)
	}
	_, ok := c.Lookup("Address")
	assert.False(t, ok)
	_, ok = c.Lookup("")
	assert.False(t, ok)

	type record struct {
		ID   string
		Code string
	}
	ambiguous, err := New(
		Scalar("ID", func(r *record) *string { return &r.ID }, JSONName("code")),
		Scalar("Code", func(r *record) *string { return &r.Code }),
	)
	require.NoError(t, err)
	_, ok = ambiguous.Lookup("code")
	assert.False(t, ok)
	_, ok = ambiguous.Lookup("id")
	assert.True(t, ok)
}

func TestBuildErrors(t *testing.T) {
	type record struct {
		Name  string
		Other string
		Ch    chan int
		Tags  []string
		Level int
	}
	tests := []struct {
		name string
		defs []Def[record]
	}{
		{name: "unsupported type", defs: []Def[record]{
			Scalar("Ch", func(r *record) *chan int { return &r.Ch }),
		}},
		{name: "duplicate name", defs: []Def[record]{
			Scalar("Name", func(r *record) *string { return &r.Name }),
			Scalar("name", func(r *record) *string { return &r.Other }),
		}},
		{name: "duplicate json name", defs: []Def[record]{
			Scalar("Name", func(r *record) *string { return &r.Name }),
			Scalar("Other", func(r *record) *string { return &r.Other }, JSONName("Name")),
		}},
		{name: "unknown rule", defs: []Def[record]{
			Scalar("Name", func(r *record) *string { return &r.Name }, Rules("Shiny")),
		}},
		{name: "item rules on scalar", defs: []Def[record]{
			Scalar("Name", func(r *record) *string { return &r.Name }, UniqueItems()),
		}},
		{name: "empty enum", defs: []Def[record]{
			Enum("Level", func(r *record) *int { return &r.Level }, nil),
		}},
		{name: "missing name", defs: []Def[record]{
			List("", func(r *record) *[]string { return &r.Tags }),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.defs...)
			assert.Error(t, err)
		})
	}

	_, err := New(Scalar("Ch", func(r *record) *chan int { return &r.Ch }))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestAccessors(t *testing.T) {
	c := orderCatalog(t)
	var o order
	field := func(name string) *Field[order] {
		f, ok := c.Lookup(name)
		require.True(t, ok)
		return f
	}

	quantity := field("Quantity")
	assert.False(t, quantity.IsSet(&o))
	require.NoError(t, quantity.Set(&o, int64(3)))
	assert.Equal(t, int32(3), o.Quantity)
	assert.Equal(t, int64(3), quantity.Value(&o))
	assert.True(t, quantity.IsSet(&o))
	assert.ErrorIs(t, quantity.Set(&o, int64(1)<<40), ErrOutOfRange)
	assert.ErrorIs(t, quantity.Set(&o, "3"), ErrValueType)
	assert.Equal(t, int32(3), o.Quantity)

	price := field("Price")
	assert.Nil(t, price.Value(&o))
	require.NoError(t, price.Set(&o, 9.5))
	require.NotNil(t, o.Price)
	assert.Equal(t, 9.5, *o.Price)
	require.NoError(t, price.Set(&o, nil))
	assert.Nil(t, o.Price)
	assert.False(t, price.IsSet(&o))

	pets := field("Pets")
	require.NoError(t, pets.Append(&o, "Cats"))
	require.NoError(t, pets.Append(&o, "GuineaPig"))
	require.NoError(t, pets.Append(&o, "Dogs"))
	assert.Equal(t, []pet{cats, guineaPig, dogs}, o.Pets)
	assert.Equal(t, []any{"Cats", "GuineaPig", "Dogs"}, pets.Items(&o))
	require.NoError(t, pets.RemoveAt(&o, 1))
	assert.Equal(t, []pet{cats, dogs}, o.Pets)
	assert.Error(t, pets.RemoveAt(&o, 5))
	assert.Error(t, pets.Append(&o, "Fish"))
	pets.Clear(&o)
	assert.Equal(t, []pet{}, o.Pets)
	assert.False(t, pets.IsSet(&o))

	assert.ErrorIs(t, quantity.Append(&o, int64(1)), ErrNotCollection)

	level := field("Level")
	assert.Equal(t, "Low", level.Value(&o))
	assert.False(t, level.IsSet(&o))
	require.NoError(t, level.Set(&o, "High"))
	assert.Equal(t, priority(1), o.Level)
	assert.Equal(t, priority(1), level.Raw(&o))

	starts := field("Starts")
	at := time.Date(2024, time.May, 15, 15, 0, 0, 0, time.UTC)
	require.NoError(t, starts.Set(&o, at))
	assert.Equal(t, civil.DateTime{Date: civil.Date{Year: 2024, Month: time.May, Day: 15}, Time: civil.Time{Hour: 15}}, *o.Starts)
	assert.Equal(t, at, starts.Value(&o))
}

func TestNonNullableDatesRejected(t *testing.T) {
	type event struct {
		Day    civil.Date
		Starts civil.DateTime
		At     civil.Time
		When   time.Time
		Days   []civil.Date
	}
	_, err := New(Scalar("Day", func(e *event) *civil.Date { return &e.Day }))
	require.ErrorIs(t, err, ErrZeroNotEncoded)
	assert.Contains(t, err.Error(), "Optional")

	_, err = New(Scalar("Starts", func(e *event) *civil.DateTime { return &e.Starts }))
	assert.ErrorIs(t, err, ErrZeroNotEncoded)

	_, err = New(
		Scalar("At", func(e *event) *civil.Time { return &e.At }),
		Scalar("When", func(e *event) *time.Time { return &e.When }),
		List("Days", func(e *event) *[]civil.Date { return &e.Days }),
	)
	assert.NoError(t, err)
}

func TestRangeBoundsMatchFieldKind(t *testing.T) {
	type record struct {
		Code  string
		Codes []string
		Count int
	}
	_, err := New(Scalar("Code", func(r *record) *string { return &r.Code }, Rules("Range(0,100)")))
	require.ErrorIs(t, err, rules.ErrIncomparable)
	assert.Contains(t, err.Error(), "field Code")

	_, err = New(List("Codes", func(r *record) *[]string { return &r.Codes }, ItemRules("Range(1,9)")))
	assert.ErrorIs(t, err, rules.ErrIncomparable)

	_, err = New(Scalar("Count", func(r *record) *int { return &r.Count }, Rules(`Range("1","9")`)))
	assert.NoError(t, err)
}

func TestCustomRegistry(t *testing.T) {
	reg := rules.NewRegistry()
	reg.MustRegister("Even", func(args ...any) (rules.Rule, error) {
		return rules.Func("Even", func(value any, vc rules.Context) error { return nil }), nil
	})
	type record struct{ N int }
	c, err := NewWithRegistry(reg, Scalar("N", func(r *record) *int { return &r.N }, Rules("Even")))
	require.NoError(t, err)
	f, _ := c.Lookup("n")
	assert.Equal(t, "Even", f.Rules[0].Kind())

	_, err = New(Scalar("N", func(r *record) *int { return &r.N }, Rules("Even")))
	assert.ErrorIs(t, err, rules.ErrUnknownRule)
}
