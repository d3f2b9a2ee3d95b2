package checkout

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"vitruchem.com/app/internal/payments"
	"vitruchem.com/app/internal/shared/money"
)

// MinUnitAmountCents is the smallest unit amount the provider will charge.
const MinUnitAmountCents = 50

// CartLine comes straight from the shopper's browser and is trusted for
// nothing. Price is major-unit dollars.
type CartLine struct {
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity int64            `json:"quantity"`
}

// Service turns a cart into a provider-hosted checkout session. It holds no
// state between calls and never stores the cart server-side.
type Service struct {
	Provider payments.Provider
	Currency string
}

func NewService(p payments.Provider, currency string) *Service {
	return &Service{Provider: p, Currency: currency}
}

// CreateSession validates the cart, prices it in cents and issues exactly one
// session-creation request. Provider failures are not retried; nothing has
// been charged yet, so aborting is safe.
func (s *Service) CreateSession(ctx context.Context, cart []CartLine, successURL, cancelURL string) (string, error) {
	if len(cart) == 0 {
		return "", ErrEmptyCart
	}

	items := make([]payments.CheckoutItem, 0, len(cart))
	for _, line := range cart {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			name = "Item"
		}
		if line.Price == nil {
			return "", &InvalidPriceError{Name: name, Reason: "missing price"}
		}
		cents := money.CentsFromDollars(*line.Price)
		if cents < MinUnitAmountCents {
			return "", &InvalidPriceError{Name: name, Reason: "unit amount too low"}
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		items = append(items, payments.CheckoutItem{
			Name:            name,
			UnitAmountCents: cents,
			Quantity:        qty,
		})
	}

	resp, err := s.Provider.CreateSession(ctx, payments.CreateSessionRequest{
		Currency:   s.Currency,
		Items:      items,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
	if err != nil {
		return "", err
	}
	return resp.SessionID, nil
}
