package payments

import "fmt"

// ProviderError preserves what the provider said so callers can decide
// whether to surface it verbatim.
type ProviderError struct {
	StatusCode int // HTTP-class status from the provider, 0 if unknown
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("payment provider: %s", e.Message)
	}
	return fmt.Sprintf("payment provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ClientFault reports whether the provider rejected the request itself
// (4xx class), as opposed to failing on its side.
func (e *ProviderError) ClientFault() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
