package webhook

import "context"

// Provider verifies that a request genuinely originates from one webhook
// sender. Implementations consume req.Body exactly once and return the raw
// validated bytes, or an *Error describing why the request was rejected.
//
// A Provider holds only immutable configuration (keys, header conventions),
// so one value is safe for concurrent requests.
type Provider interface {
	Name() string
	Verify(ctx context.Context, req *Request) ([]byte, error)
}

// Destroyer is implemented by providers that hold secret key material and
// can wipe it when the configuration is torn down.
type Destroyer interface {
	Destroy()
}
