package webhook

import (
	"io"
	"strings"
)

// Headers is the header-lookup capability the engine needs from the host
// framework: case-insensitive, first value wins. http.Header satisfies it.
type Headers interface {
	Get(name string) string
}

// Request is a read-only view over one incoming webhook request. It is
// constructed per request by the boundary adapter and discarded after the
// verification completes. The body stream is consumed exactly once.
type Request struct {
	// Headers provides case-insensitive header lookup
	Headers Headers

	// ContentLength is the declared body size. It is used only to pre-size
	// the accumulation buffer and is never trusted for correctness.
	// A negative value means unknown.
	ContentLength int64

	// Body is the raw body stream. The caller is responsible for bounding
	// its total size (e.g. with http.MaxBytesReader) before verification.
	Body io.Reader

	// Bounds is the replay window for timestamp-bearing providers,
	// derived once per request from the configured tolerance.
	Bounds TimeBounds
}

// Buffer pre-sizing limits. The content length is a hint from the sender,
// so allocations based on it are capped.
const (
	defaultBufferSize = 512
	maxBufferHint     = 1 << 20
)

func (r *Request) bufferHint() int {
	if r.ContentLength > 0 && r.ContentLength <= maxBufferHint {
		return int(r.ContentLength)
	}
	return defaultBufferSize
}

// readBody drains the request body into memory, forwarding every chunk to
// tee as it arrives. The stream is non-restartable; a read error at any
// point is fatal and the partial body is discarded.
func readBody(req *Request, tee io.Writer) ([]byte, error) {
	raw := make([]byte, 0, req.bufferHint())
	buf := make([]byte, 32*1024)
	for {
		n, err := req.Body.Read(buf)
		if n > 0 {
			if tee != nil {
				// hash.Hash writers never return errors
				tee.Write(buf[:n])
			}
			raw = append(raw, buf[:n]...)
		}
		if err == io.EOF {
			return raw, nil
		}
		if err != nil {
			return nil, ReadError(err)
		}
	}
}

// RequireHeader returns the value of a required header, failing with a
// MissingHeader error when it is absent.
func RequireHeader(h Headers, name string) (string, error) {
	value := h.Get(name)
	if value == "" {
		return "", MissingHeaderError(name)
	}
	return value, nil
}

// RequireHeaderPrefixed returns a required header's value with the given
// literal prefix stripped. A present header without the prefix is an
// InvalidHeader error, distinct from the header being absent.
func RequireHeaderPrefixed(h Headers, name, prefix string) (string, error) {
	value, err := RequireHeader(h, name)
	if err != nil {
		return "", err
	}
	stripped, ok := strings.CutPrefix(value, prefix)
	if !ok {
		return "", InvalidHeaderError("header '%s' doesn't have required prefix '%s'", name, prefix)
	}
	return stripped, nil
}
