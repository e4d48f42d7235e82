package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
)

const (
	msgNoConnectivity = "No internet connection available"
	msgEmptyBody      = "Empty response body"
)

// NormalizeError turns a non-success response into a WireError. The body is
// parsed best-effort; anything unreadable leaves the tag and message nil.
func NormalizeError(status int, body []byte) *domain.WireError {
	env := parseEnvelope(body)
	if env == nil {
		return &domain.WireError{HTTPCode: status}
	}
	return &domain.WireError{HTTPCode: status, Code: env.Code, Message: env.Message}
}

func parseEnvelope(body []byte) *errorEnvelope {
	if strings.TrimSpace(string(body)) == "" {
		return nil
	}
	var out errorEnvelope
	if err := json.Unmarshal(body, &out); err != nil {
		return nil
	}
	return &out
}

// transportError converts a client failure into a CodeTransport WireError
// tagged by the kind of failure.
func transportError(err error) *domain.WireError {
	return domain.NewWireError(domain.CodeTransport, transportTag(err), err.Error())
}

func transportTag(err error) string {
	if errors.Is(err, context.Canceled) {
		return domain.TagCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.TagTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return domain.TagTimeout
		}
		return domain.TagUnknownHost
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.TagTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.TagConnect
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return domain.TagConnect
		}
		return domain.TagSocket
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
		return domain.TagIO
	}

	return typeName(err)
}

// typeName falls back to the innermost error's type for unclassified failures.
func typeName(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	name := fmt.Sprintf("%T", err)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}
