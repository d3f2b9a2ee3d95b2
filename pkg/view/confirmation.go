package view

import (
	"strings"

	"vitruchem.com/app/internal/orders"
	"vitruchem.com/app/internal/shared/money"
)

type ConfirmationLine struct {
	Name     string
	Quantity int64
	Amount   string
}

// Confirmation is the display-ready shape of an order confirmation: amounts
// pre-formatted, card brand upper-cased for the receipt line.
type Confirmation struct {
	SessionID string
	Paid      bool
	Total     string
	Name      string
	Email     string
	CardBrand string
	CardLast4 string
	Lines     []ConfirmationLine
}

func ConfirmationFrom(o orders.Confirmation, currency string) Confirmation {
	out := Confirmation{
		SessionID: o.SessionID,
		Paid:      o.Paid,
		Total:     money.FormatCents(o.TotalCents, currency),
		Name:      strings.TrimSpace(o.CustomerName),
		Email:     o.CustomerEmail,
		CardLast4: o.CardLast4,
	}
	if o.CardBrand != "" && o.CardLast4 != "" {
		out.CardBrand = strings.ToUpper(o.CardBrand)
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, ConfirmationLine{
			Name:     l.Name,
			Quantity: l.Quantity,
			Amount:   money.FormatCents(l.AmountCents, currency),
		})
	}
	return out
}
