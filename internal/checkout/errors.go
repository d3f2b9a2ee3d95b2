package checkout

import (
	"errors"
	"fmt"
)

var ErrEmptyCart = errors.New("cart is empty")

// InvalidPriceError names the cart line that cannot be charged.
type InvalidPriceError struct {
	Name   string
	Reason string
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price for %q: %s", e.Name, e.Reason)
}
