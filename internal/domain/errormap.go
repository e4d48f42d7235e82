package domain

import "net/http"

// Transport tags that the gateway attaches to CodeTransport errors. The
// values mirror the exception names the upstream client contract uses.
const (
	TagNetworkUnavailable = "NetworkError"
	TagIO                 = "IOException"
	TagTimeout            = "SocketTimeoutException"
	TagConnect            = "ConnectException"
	TagUnknownHost        = "UnknownHostException"
	TagSocket             = "SocketException"
	TagCancelled          = "CancellationException"
	TagParsing            = "parsingError"
	TagLocalData          = "LocalDataError"
)

var networkTags = map[string]struct{}{
	TagIO:          {},
	TagTimeout:     {},
	TagConnect:     {},
	TagUnknownHost: {},
	TagSocket:      {},
}

var badRequestKinds = map[string]Kind{
	"parameterInvalid":   KindParameterInvalid,
	"parametersMissing":  KindParametersMissing,
	"sourcesTooMany":     KindSourcesTooMany,
	"sourceDoesNotExist": KindSourceDoesNotExist,
}

var unauthorizedKinds = map[string]Kind{
	"apiKeyDisabled":  KindAPIKeyDisabled,
	"apiKeyExhausted": KindAPIKeyExhausted,
	"apiKeyInvalid":   KindAPIKeyInvalid,
	"apiKeyMissing":   KindAPIKeyMissing,
}

// MapWireError classifies a wire error into a domain error. It is pure and
// total: unknown (code, tag) pairs become KindUnexpected. NetworkError and
// ParsingError always carry their fallback text.
func MapWireError(e *WireError) *Error {
	if e == nil {
		return newError(KindUnexpected, nil)
	}

	switch e.HTTPCode {
	case http.StatusBadRequest:
		return lookup(badRequestKinds, e)
	case http.StatusUnauthorized:
		return lookup(unauthorizedKinds, e)
	case http.StatusTooManyRequests:
		if e.CodeValue() == "rateLimited" {
			return newError(KindRateLimited, e.Message)
		}
		return newError(KindUnexpected, e.Message)
	case CodeTransport:
		if _, ok := networkTags[e.CodeValue()]; ok {
			return newError(KindNetworkError, nil)
		}
		return newError(KindUnexpected, e.Message)
	case CodeParsing:
		return newError(KindParsingError, nil)
	default:
		// 500 and every other status.
		return newError(KindUnexpected, e.Message)
	}
}

func lookup(table map[string]Kind, e *WireError) *Error {
	if e.Code != nil {
		if kind, ok := table[*e.Code]; ok {
			return newError(kind, e.Message)
		}
	}
	return newError(KindUnexpected, e.Message)
}
