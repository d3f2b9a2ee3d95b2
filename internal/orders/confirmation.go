// Package orders derives order confirmations from provider-held payment
// state. It never persists anything: the provider stays authoritative and the
// confirmation is recomputed on every retrieval.
package orders

import (
	"context"
	"errors"
	"regexp"

	"vitruchem.com/app/internal/payments"
)

// ErrInvalidReference rejects session references that do not look like a
// checkout session id. Checked before any remote call.
var ErrInvalidReference = errors.New("missing or invalid session reference")

var sessionRefPattern = regexp.MustCompile(`^cs_(test|live)_[A-Za-z0-9]+$`)

// lineItemPageSize bounds the fallback line-item listing.
const lineItemPageSize = 100

// ConfirmationLine is one purchased line as the provider reports it.
type ConfirmationLine struct {
	Name        string
	Quantity    int64
	AmountCents int64
}

// Confirmation is the reconciled, display-ready view of a completed checkout.
// All amounts come from the provider, never from the shopper's cart.
type Confirmation struct {
	SessionID     string
	Paid          bool
	TotalCents    int64
	CustomerEmail string
	CustomerName  string
	CardBrand     string
	CardLast4     string
	Lines         []ConfirmationLine
}

type Service struct {
	Provider payments.Provider
}

func NewService(p payments.Provider) *Service {
	return &Service{Provider: p}
}

// Reconcile fetches the authoritative session state and folds it into a
// Confirmation. Pure read; safe to call any number of times.
func (s *Service) Reconcile(ctx context.Context, sessionRef string) (Confirmation, error) {
	if !sessionRefPattern.MatchString(sessionRef) {
		return Confirmation{}, ErrInvalidReference
	}

	sess, err := s.Provider.RetrieveSession(ctx, sessionRef)
	if err != nil {
		return Confirmation{}, err
	}

	lines := sess.LineItems
	if !sess.LineItemsInline {
		// Not a retry: the retrieve succeeded, the expansion just came back
		// empty, so list the items explicitly.
		lines, err = s.Provider.ListLineItems(ctx, sessionRef, lineItemPageSize)
		if err != nil {
			return Confirmation{}, err
		}
	}

	conf := Confirmation{
		SessionID:     sess.ID,
		Paid:          paid(sess),
		TotalCents:    total(sess),
		CustomerEmail: sess.CustomerEmail,
		CustomerName:  sess.CustomerName,
		CardBrand:     sess.CardBrand,
		CardLast4:     sess.CardLast4,
	}
	for _, li := range lines {
		amount := li.AmountTotalCents
		if amount == 0 {
			amount = li.UnitAmountCents * li.Quantity
		}
		conf.Lines = append(conf.Lines, ConfirmationLine{
			Name:        li.Name,
			Quantity:    li.Quantity,
			AmountCents: amount,
		})
	}
	return conf, nil
}

// paid prefers the payment object's own status; the session-level
// payment_status is only a fallback when no payment was attached.
func paid(sess payments.SessionDetails) bool {
	if sess.HasPayment {
		return sess.PaymentIntentState == "succeeded"
	}
	return sess.PaymentStatus == "paid"
}

// total prefers the session's authoritative amount, falling back to the
// payment amount when the session total is absent.
func total(sess payments.SessionDetails) int64 {
	if sess.AmountTotalCents != 0 {
		return sess.AmountTotalCents
	}
	if sess.HasPayment {
		return sess.PaymentAmountCents
	}
	return 0
}
