package payments

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

// Stripe implements Provider on Stripe Checkout. The key is injected per
// instance; nothing touches the package-global stripe.Key.
type Stripe struct {
	sc *client.API
}

func NewStripe(secretKey string) *Stripe {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Stripe{sc: sc}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateSession(ctx context.Context, req CreateSessionRequest) (CreateSessionResponse, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(it.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  items,
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	sess, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		return CreateSessionResponse{}, wrapStripeErr(err)
	}
	return CreateSessionResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

func (s *Stripe) RetrieveSession(ctx context.Context, sessionID string) (SessionDetails, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent.latest_charge")
	params.AddExpand("line_items.data.price.product")

	sess, err := s.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return SessionDetails{}, wrapStripeErr(err)
	}

	d := SessionDetails{
		ID:               sess.ID,
		PaymentStatus:    string(sess.PaymentStatus),
		AmountTotalCents: sess.AmountTotal,
	}
	if cd := sess.CustomerDetails; cd != nil {
		d.CustomerEmail = cd.Email
		d.CustomerName = cd.Name
	}
	if pi := sess.PaymentIntent; pi != nil {
		d.HasPayment = true
		d.PaymentIntentState = string(pi.Status)
		d.PaymentAmountCents = pi.Amount
		if ch := pi.LatestCharge; ch != nil && ch.PaymentMethodDetails != nil && ch.PaymentMethodDetails.Card != nil {
			d.CardBrand = string(ch.PaymentMethodDetails.Card.Brand)
			d.CardLast4 = ch.PaymentMethodDetails.Card.Last4
		}
	}
	if sess.LineItems != nil {
		d.LineItemsInline = true
		for _, li := range sess.LineItems.Data {
			d.LineItems = append(d.LineItems, mapLineItem(li))
		}
	}
	return d, nil
}

func (s *Stripe) ListLineItems(ctx context.Context, sessionID string, limit int64) ([]LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	var out []LineItem
	iter := s.sc.CheckoutSessions.ListLineItems(params)
	for iter.Next() {
		out = append(out, mapLineItem(iter.LineItem()))
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeErr(err)
	}
	return out, nil
}

func mapLineItem(li *stripe.LineItem) LineItem {
	out := LineItem{
		Name:             li.Description,
		Quantity:         li.Quantity,
		AmountTotalCents: li.AmountTotal,
	}
	if li.Price != nil {
		out.UnitAmountCents = li.Price.UnitAmount
		if li.Price.Product != nil && li.Price.Product.Name != "" {
			out.Name = li.Price.Product.Name
		}
	}
	return out
}

func wrapStripeErr(err error) error {
	var serr *stripe.Error
	if errors.As(err, &serr) {
		return &ProviderError{StatusCode: serr.HTTPStatusCode, Message: serr.Msg, Err: err}
	}
	return &ProviderError{Message: err.Error(), Err: err}
}
