package identity

// Synthetic error codes produced locally rather than by the provider.
const (
	ErrCodeNetwork = "NETWORK_REQUEST_FAILED"
	ErrCodeUnknown = "UNKNOWN"
)

// ErrorMessage maps a provider error code to a user-facing message.
func ErrorMessage(code string) string {
	switch code {
	case "EMAIL_NOT_FOUND":
		return "No account found with this email address."
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return "Incorrect password. Please try again."
	case "EMAIL_EXISTS":
		return "An account with this email already exists."
	case "WEAK_PASSWORD":
		return "Password should be at least 6 characters long."
	case "INVALID_EMAIL":
		return "Please enter a valid email address."
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return "Too many failed attempts. Please try again later."
	case ErrCodeNetwork:
		return "Network error. Please check your connection."
	default:
		return "An error occurred. Please try again."
	}
}
