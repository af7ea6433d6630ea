package views

// Messages shown for the error codes the sign-in callback redirects
// back with.
var authErrorMessages = map[string]string{
	"AccessDenied":  "Access was denied. Please make sure to grant the necessary permissions.",
	"Configuration": "There is a problem with the server configuration.",
}

const defaultAuthErrorMessage = "An error occurred during authentication. Please try again."

// AuthErrorMessage maps the error query parameter to a user-facing
// message. An empty code means no error to show.
func AuthErrorMessage(code string) string {
	if code == "" {
		return ""
	}
	if msg, ok := authErrorMessages[code]; ok {
		return msg
	}
	return defaultAuthErrorMessage
}
