package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on API requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the authorization scheme prefix for API tokens.
	BearerScheme = "Bearer"

	// SessionCookieName names the browser session cookie.
	SessionCookieName = "til-session"

	// CSRFFieldName is the form field holding the anti-forgery token.
	CSRFFieldName = "csrfToken"

	// MinTokenSize is the lower bound, in bytes, for random credentials.
	MinTokenSize = 16
)
