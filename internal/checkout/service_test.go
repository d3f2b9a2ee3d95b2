package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vitruchem.com/app/internal/payments"
)

type stubProvider struct {
	createCalls int
	lastReq     payments.CreateSessionRequest
	createErr   error
	sessionID   string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) CreateSession(_ context.Context, req payments.CreateSessionRequest) (payments.CreateSessionResponse, error) {
	s.createCalls++
	s.lastReq = req
	if s.createErr != nil {
		return payments.CreateSessionResponse{}, s.createErr
	}
	return payments.CreateSessionResponse{SessionID: s.sessionID}, nil
}

func (s *stubProvider) RetrieveSession(context.Context, string) (payments.SessionDetails, error) {
	panic("not used")
}

func (s *stubProvider) ListLineItems(context.Context, string, int64) ([]payments.LineItem, error) {
	panic("not used")
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateSessionEmptyCart(t *testing.T) {
	p := &stubProvider{sessionID: "cs_test_abc"}
	svc := NewService(p, "usd")

	_, err := svc.CreateSession(context.Background(), nil, "https://x/ok", "https://x/cart")
	require.ErrorIs(t, err, ErrEmptyCart)
	require.Zero(t, p.createCalls, "provider must not be called for an empty cart")
}

func TestCreateSessionMissingPrice(t *testing.T) {
	p := &stubProvider{sessionID: "cs_test_abc"}
	svc := NewService(p, "usd")

	cart := []CartLine{{Name: "Lye Soap", Quantity: 1}}
	_, err := svc.CreateSession(context.Background(), cart, "https://x/ok", "https://x/cart")

	var iperr *InvalidPriceError
	require.ErrorAs(t, err, &iperr)
	require.Equal(t, "Lye Soap", iperr.Name)
	require.Zero(t, p.createCalls)
}

func TestCreateSessionMinimumChargeBoundary(t *testing.T) {
	t.Run("49 cents rejected", func(t *testing.T) {
		p := &stubProvider{sessionID: "cs_test_abc"}
		svc := NewService(p, "usd")

		cart := []CartLine{{Name: "A", Price: price("0.49"), Quantity: 1}}
		_, err := svc.CreateSession(context.Background(), cart, "https://x/ok", "https://x/cart")

		var iperr *InvalidPriceError
		require.ErrorAs(t, err, &iperr)
		require.Zero(t, p.createCalls, "rejected before any provider call")
	})

	t.Run("50 cents accepted", func(t *testing.T) {
		p := &stubProvider{sessionID: "cs_test_abc"}
		svc := NewService(p, "usd")

		cart := []CartLine{{Name: "A", Price: price("0.50"), Quantity: 1}}
		id, err := svc.CreateSession(context.Background(), cart, "https://x/ok", "https://x/cart")
		require.NoError(t, err)
		require.Equal(t, "cs_test_abc", id)
		require.Equal(t, 1, p.createCalls)
		require.Equal(t, int64(50), p.lastReq.Items[0].UnitAmountCents)
	})
}

func TestCreateSessionClampsQuantity(t *testing.T) {
	p := &stubProvider{sessionID: "cs_test_abc"}
	svc := NewService(p, "usd")

	cart := []CartLine{{Name: "A", Price: price("4.99"), Quantity: 0}}
	_, err := svc.CreateSession(context.Background(), cart, "https://x/ok", "https://x/cart")
	require.NoError(t, err)
	require.Equal(t, int64(1), p.lastReq.Items[0].Quantity)
	require.Equal(t, int64(499), p.lastReq.Items[0].UnitAmountCents)
}

func TestCreateSessionDefaultsItemName(t *testing.T) {
	p := &stubProvider{sessionID: "cs_test_abc"}
	svc := NewService(p, "usd")

	cart := []CartLine{{Name: "   ", Price: price("2.00"), Quantity: 2}}
	_, err := svc.CreateSession(context.Background(), cart, "https://x/ok", "https://x/cart")
	require.NoError(t, err)
	require.Equal(t, "Item", p.lastReq.Items[0].Name)
}

func TestCreateSessionSingleAttemptOnProviderError(t *testing.T) {
	perr := &payments.ProviderError{StatusCode: 503, Message: "upstream down"}
	p := &stubProvider{createErr: perr}
	svc := NewService(p, "usd")

	cart := []CartLine{{Name: "A", Price: price("10.00"), Quantity: 1}}
	_, err := svc.CreateSession(context.Background(), cart, "https://x/ok", "https://x/cart")

	var got *payments.ProviderError
	require.ErrorAs(t, err, &got)
	require.Equal(t, 1, p.createCalls, "no retry on provider failure")
}

func TestCreateSessionPassesURLsAndCurrency(t *testing.T) {
	p := &stubProvider{sessionID: "cs_test_abc"}
	svc := NewService(p, "usd")

	cart := []CartLine{{Name: "A", Price: price("5.00"), Quantity: 1}}
	_, err := svc.CreateSession(context.Background(), cart, "https://shop/thank-you?sid={CHECKOUT_SESSION_ID}", "https://shop/cart.html")
	require.NoError(t, err)
	require.Equal(t, "usd", p.lastReq.Currency)
	require.Equal(t, "https://shop/thank-you?sid={CHECKOUT_SESSION_ID}", p.lastReq.SuccessURL)
	require.Equal(t, "https://shop/cart.html", p.lastReq.CancelURL)
}
