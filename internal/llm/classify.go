package llm

// IsRetryableStatus reports whether an upstream HTTP status (or Gemini
// error code, which mirrors HTTP) is worth retrying. Rate limiting and
// server-side failures are transient; everything else, including auth
// and malformed-request errors, fails fast.
func IsRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
