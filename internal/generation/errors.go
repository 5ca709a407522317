package generation

import "errors"

// Error taxonomy for the generation pipeline. Providers wrap their failures
// with exactly one of these sentinels so the orchestrator and handlers can
// classify them with errors.Is.
var (
	// ErrConfiguration is returned when a provider or the orchestrator is
	// constructed with invalid configuration. Fatal, never retried.
	ErrConfiguration = errors.New("invalid generation configuration")

	// ErrValidation is returned for invalid caller input. The caller must
	// fix and resend; never triggers fallback because no call was made.
	ErrValidation = errors.New("invalid generation input")

	// ErrUpstream is returned when the model API answers with a non-2xx
	// status or an explicit API error. Recoverable via template fallback.
	ErrUpstream = errors.New("upstream model error")

	// ErrParsing is returned when the model output is not the expected JSON
	// object or is missing required fields. Recoverable via fallback.
	ErrParsing = errors.New("malformed AI output")

	// ErrNetwork is returned for connection failures and timeouts before an
	// upstream response is received. Recoverable via fallback.
	ErrNetwork = errors.New("network error reaching model provider")
)

// Classify maps an error to its taxonomy name for structured logging.
func Classify(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrParsing):
		return "parsing"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "unknown"
	}
}
