package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitruchem.com/app/internal/checkout"
	"vitruchem.com/app/internal/http/middleware"
	"vitruchem.com/app/internal/payments"
	"vitruchem.com/app/internal/shared/apperr"
)

type CheckoutHandler struct {
	Checkout *checkout.Service
}

func NewCheckoutHandler(s *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{Checkout: s}
}

type checkoutRequest struct {
	Cart []checkout.CartLine `json:"cart"`
}

// CreateSession validates the cart and opens a provider-hosted checkout
// session. The shopper is redirected there by the storefront script; nothing
// is charged here.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Request body is not valid JSON.", nil))
		return
	}

	base := baseURL(c)
	successURL := base + "/thank-you?sid={CHECKOUT_SESSION_ID}"
	cancelURL := base + "/cart.html"

	id, err := h.Checkout.CreateSession(c.Request.Context(), req.Cart, successURL, cancelURL)
	if err != nil {
		var iperr *checkout.InvalidPriceError
		var perr *payments.ProviderError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			middleware.Fail(c, apperr.InvalidErr("Cart is empty.", nil))
		case errors.As(err, &iperr):
			middleware.Fail(c, apperr.InvalidErr(iperr.Error(), nil))
		case errors.As(err, &perr) && perr.ClientFault():
			// The provider rejected the request itself; its message is safe
			// to show. No charge happened, no retry.
			middleware.Fail(c, apperr.InvalidErr(perr.Message, nil))
		default:
			middleware.Fail(c, apperr.UpstreamErr("Payment provider unavailable. Please try again.", err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
