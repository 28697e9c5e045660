package errors

// ErrorCode identifies an application error category in responses and logs.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1003
	ErrorCode_FORBIDDEN        ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1005

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001
	ErrorCode_AUTH_OAUTH_FAILED  ErrorCode = 2002
	ErrorCode_AUTH_USER_NOT_FOUND ErrorCode = 2003

	// Transcript pipeline
	ErrorCode_SOURCE_UNAVAILABLE      ErrorCode = 3000
	ErrorCode_TRANSCRIPTION_FAILED    ErrorCode = 3001
	ErrorCode_PROVIDER_NOT_CONFIGURED ErrorCode = 3002

	// Anonymous usage metering
	ErrorCode_USAGE_TOKEN_INVALID ErrorCode = 4000
	ErrorCode_QUOTA_EXCEEDED      ErrorCode = 4001

	// Translation
	ErrorCode_TRANSLATION_UNAVAILABLE ErrorCode = 5000

	// Payments
	ErrorCode_PAYMENT_NOT_CONFIGURED     ErrorCode = 6000
	ErrorCode_PAYMENT_SIGNATURE_INVALID  ErrorCode = 6001
	ErrorCode_SUBSCRIPTION_NOT_FOUND     ErrorCode = 6002
)

// String returns a stable name for the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_HTTP_OK:
		return "OK"
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INVALID_ARGUMENT:
		return "INVALID_ARGUMENT"
	case ErrorCode_NOT_FOUND:
		return "NOT_FOUND"
	case ErrorCode_UNAUTHENTICATED:
		return "UNAUTHENTICATED"
	case ErrorCode_FORBIDDEN:
		return "FORBIDDEN"
	case ErrorCode_INVALID_PAYLOAD:
		return "INVALID_PAYLOAD"
	case ErrorCode_AUTH_INVALID_TOKEN:
		return "AUTH_INVALID_TOKEN"
	case ErrorCode_AUTH_TOKEN_EXPIRED:
		return "AUTH_TOKEN_EXPIRED"
	case ErrorCode_AUTH_OAUTH_FAILED:
		return "AUTH_OAUTH_FAILED"
	case ErrorCode_AUTH_USER_NOT_FOUND:
		return "AUTH_USER_NOT_FOUND"
	case ErrorCode_SOURCE_UNAVAILABLE:
		return "SOURCE_UNAVAILABLE"
	case ErrorCode_TRANSCRIPTION_FAILED:
		return "TRANSCRIPTION_FAILED"
	case ErrorCode_PROVIDER_NOT_CONFIGURED:
		return "PROVIDER_NOT_CONFIGURED"
	case ErrorCode_USAGE_TOKEN_INVALID:
		return "USAGE_TOKEN_INVALID"
	case ErrorCode_QUOTA_EXCEEDED:
		return "QUOTA_EXCEEDED"
	case ErrorCode_TRANSLATION_UNAVAILABLE:
		return "TRANSLATION_UNAVAILABLE"
	case ErrorCode_PAYMENT_NOT_CONFIGURED:
		return "PAYMENT_NOT_CONFIGURED"
	case ErrorCode_PAYMENT_SIGNATURE_INVALID:
		return "PAYMENT_SIGNATURE_INVALID"
	case ErrorCode_SUBSCRIPTION_NOT_FOUND:
		return "SUBSCRIPTION_NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}
