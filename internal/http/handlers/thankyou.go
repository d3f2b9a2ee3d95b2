package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitruchem.com/app/internal/http/middleware"
	"vitruchem.com/app/internal/http/render"
	"vitruchem.com/app/internal/orders"
	"vitruchem.com/app/internal/payments"
	"vitruchem.com/app/pkg/view"
)

type ThankYouHandler struct {
	Orders   *orders.Service
	Currency string
	Log      *slog.Logger
}

func NewThankYouHandler(o *orders.Service, currency string, log *slog.Logger) *ThankYouHandler {
	return &ThankYouHandler{Orders: o, Currency: currency, Log: log}
}

type thankYouPage struct {
	Error string
	Conf  view.Confirmation
}

// Get renders the order confirmation for `?sid=cs_...`. Failures degrade to a
// polite card instead of an error status: the shopper already paid, the page
// must render something actionable either way.
func (h *ThankYouHandler) Get(c *gin.Context) {
	sid := c.Query("sid")

	conf, err := h.Orders.Reconcile(c.Request.Context(), sid)
	if err != nil {
		h.Log.LogAttrs(c.Request.Context(), slog.LevelWarn, "confirmation_degraded",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("err", err.Error()),
		)
		render.Page(c, http.StatusOK, "thankyou.html", thankYouPage{Error: degradedMessage(err)})
		return
	}

	render.Page(c, http.StatusOK, "thankyou.html", thankYouPage{
		Conf: view.ConfirmationFrom(conf, h.Currency),
	})
}

func degradedMessage(err error) string {
	if errors.Is(err, orders.ErrInvalidReference) {
		return "Missing or invalid session id."
	}
	var perr *payments.ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	return "Receipt lookup failed."
}
