package payments

import "context"

// CheckoutItem is a priced line the provider will charge for. Amounts are
// integer minor currency units (cents).
type CheckoutItem struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

type CreateSessionRequest struct {
	Currency   string
	Items      []CheckoutItem
	SuccessURL string
	CancelURL  string
}

type CreateSessionResponse struct {
	SessionID string
	URL       string
}

// LineItem is a provider-authoritative purchased line.
type LineItem struct {
	Name             string
	Quantity         int64
	UnitAmountCents  int64
	AmountTotalCents int64
}

// SessionDetails is the reconciled state of a checkout session as the
// provider reports it. Payment* fields are zero when no payment object was
// attached to the session yet.
type SessionDetails struct {
	ID            string
	PaymentStatus string // session-level: "paid" | "unpaid" | ...

	HasPayment         bool
	PaymentIntentState string // payment-level: "succeeded" | ...
	PaymentAmountCents int64

	AmountTotalCents int64

	CustomerEmail string
	CustomerName  string
	CardBrand     string
	CardLast4     string

	// LineItemsInline reports whether LineItems came back with the retrieve;
	// when false the caller must list them explicitly.
	LineItemsInline bool
	LineItems       []LineItem
}

// Provider is the narrow capability surface this system needs from the hosted
// payment backend. Session creation is the only mutating call.
type Provider interface {
	Name() string
	CreateSession(ctx context.Context, req CreateSessionRequest) (CreateSessionResponse, error)
	RetrieveSession(ctx context.Context, sessionID string) (SessionDetails, error)
	ListLineItems(ctx context.Context, sessionID string, limit int64) ([]LineItem, error)
}
