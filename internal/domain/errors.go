package domain

// Kind enumerates the user-facing error classifications. The set is closed;
// MapWireError always yields one of these.
type Kind int

const (
	KindUnexpected Kind = iota
	KindParameterInvalid
	KindParametersMissing
	KindSourcesTooMany
	KindSourceDoesNotExist
	KindAPIKeyDisabled
	KindAPIKeyExhausted
	KindAPIKeyInvalid
	KindAPIKeyMissing
	KindRateLimited
	KindNetworkError
	KindParsingError

	kindCount
)

// Fallback display messages, used when upstream sent none.
const (
	MsgParameterInvalid   = "Invalid parameter in request"
	MsgParametersMissing  = "Required parameters are missing"
	MsgSourcesTooMany     = "Too many sources"
	MsgSourceDoesNotExist = "Source does not exist"
	MsgAPIKeyDisabled     = "API key disabled"
	MsgAPIKeyExhausted    = "API key exhausted"
	MsgAPIKeyInvalid      = "API key invalid"
	MsgAPIKeyMissing      = "API key missing"
	MsgRateLimited        = "Rate limited"
	MsgNetworkError       = "Network error occurred"
	MsgParsingError       = "Parsing error occurred"
	MsgUnexpected         = "Unexpected error occurred"
)

var kindNames = [kindCount]string{
	KindUnexpected:         "Unexpected",
	KindParameterInvalid:   "ParameterInvalid",
	KindParametersMissing:  "ParametersMissing",
	KindSourcesTooMany:     "SourcesTooMany",
	KindSourceDoesNotExist: "SourceDoesNotExist",
	KindAPIKeyDisabled:     "ApiKeyDisabled",
	KindAPIKeyExhausted:    "ApiKeyExhausted",
	KindAPIKeyInvalid:      "ApiKeyInvalid",
	KindAPIKeyMissing:      "ApiKeyMissing",
	KindRateLimited:        "RateLimited",
	KindNetworkError:       "NetworkError",
	KindParsingError:       "ParsingError",
}

var kindFallbacks = [kindCount]string{
	KindUnexpected:         MsgUnexpected,
	KindParameterInvalid:   MsgParameterInvalid,
	KindParametersMissing:  MsgParametersMissing,
	KindSourcesTooMany:     MsgSourcesTooMany,
	KindSourceDoesNotExist: MsgSourceDoesNotExist,
	KindAPIKeyDisabled:     MsgAPIKeyDisabled,
	KindAPIKeyExhausted:    MsgAPIKeyExhausted,
	KindAPIKeyInvalid:      MsgAPIKeyInvalid,
	KindAPIKeyMissing:      MsgAPIKeyMissing,
	KindRateLimited:        MsgRateLimited,
	KindNetworkError:       MsgNetworkError,
	KindParsingError:       MsgParsingError,
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return kindNames[KindUnexpected]
	}
	return kindNames[k]
}

// Fallback returns the default display message for the kind.
func (k Kind) Fallback() string {
	if k < 0 || k >= kindCount {
		return MsgUnexpected
	}
	return kindFallbacks[k]
}

// Kinds lists every classification in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Error is a classified failure carrying a non-empty display message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func newError(kind Kind, message *string) *Error {
	if message == nil {
		return &Error{Kind: kind, Message: kind.Fallback()}
	}
	return &Error{Kind: kind, Message: *message}
}
