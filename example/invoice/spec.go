package main

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/tbxark/formfill/catalog"
	"github.com/tbxark/formfill/types"
)

type Category string

const (
	Travel    Category = "Travel"
	Meals     Category = "Meals"
	Lodging   Category = "Lodging"
	Equipment Category = "Equipment"
)

type Invoice struct {
	Title       string      `json:"title"`
	Amount      float64     `json:"amount"`
	Date        *civil.Date `json:"date"`
	Category    Category    `json:"category"`
	Payee       string      `json:"payee"`
	Attendees   []string    `json:"attendees"`
	Description string      `json:"description"`
}

var invoiceCatalog = catalog.MustNew(
	catalog.Scalar("Title", func(i *Invoice) *string { return &i.Title },
		catalog.JSONName("title"), catalog.Rules("Required", "StringLength(80)")),
	catalog.Scalar("Amount", func(i *Invoice) *float64 { return &i.Amount },
		catalog.JSONName("amount"), catalog.Rules("Required", "Range(0.01,10000)"), catalog.Description("amount in EUR")),
	catalog.Optional("Date", func(i *Invoice) **civil.Date { return &i.Date },
		catalog.JSONName("date"), catalog.Rules("Required")),
	catalog.Enum("Category", func(i *Invoice) *Category { return &i.Category },
		catalog.StringMembers(Travel, Meals, Lodging, Equipment), catalog.JSONName("category"), catalog.Rules("Required")),
	catalog.Scalar("Payee", func(i *Invoice) *string { return &i.Payee },
		catalog.JSONName("payee"), catalog.Rules("Required")),
	catalog.List("Attendees", func(i *Invoice) *[]string { return &i.Attendees },
		catalog.JSONName("attendees"), catalog.ItemRules("StringLength(40)"), catalog.UniqueItems()),
	catalog.Scalar("Description", func(i *Invoice) *string { return &i.Description },
		catalog.JSONName("description"), catalog.Rules("MaxLength(200)")),
)

func summary(i *Invoice) string {
	date := ""
	if i.Date != nil {
		date = i.Date.String()
	}
	return fmt.Sprintf("Title: %s\nAmount: %.2f EUR\nDate: %s\nCategory: %s\nPayee: %s\nAttendees: %s\nDescription: %s",
		i.Title, i.Amount, date, i.Category, i.Payee, types.FormatValue(toAny(i.Attendees)), i.Description)
}

func toAny(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
