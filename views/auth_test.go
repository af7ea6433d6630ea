package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthErrorMessageAccessDenied(t *testing.T) {
	msg := AuthErrorMessage("AccessDenied")
	assert.Equal(t, "Access was denied. Please make sure to grant the necessary permissions.", msg)
}

func TestAuthErrorMessageConfiguration(t *testing.T) {
	msg := AuthErrorMessage("Configuration")
	assert.Equal(t, "There is a problem with the server configuration.", msg)
}

func TestAuthErrorMessageFallback(t *testing.T) {
	msg := AuthErrorMessage("SomethingUnexpected")
	assert.Equal(t, "An error occurred during authentication. Please try again.", msg)
}

func TestAuthErrorMessageEmpty(t *testing.T) {
	assert.Empty(t, AuthErrorMessage(""))
}

func TestAuthPageRendersProviders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, AuthPage(&buf, AuthPageData{}))

	html := buf.String()
	assert.Contains(t, html, `data-provider="google"`)
	assert.Contains(t, html, `data-provider="github"`)
	assert.Contains(t, html, "hasShownWelcome")
	assert.NotContains(t, html, "toast-error")
}

func TestAuthPageRendersErrorToast(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, AuthPage(&buf, AuthPageData{
		ErrorMessage: AuthErrorMessage("AccessDenied"),
	}))

	assert.Contains(t, buf.String(), "Access was denied. Please make sure to grant the necessary permissions.")
}

func TestHomePageRendersUser(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HomePage(&buf, HomePageData{
		Name:  "Ana",
		Image: "http://example.com/ana.png",
	}))

	html := buf.String()
	assert.Contains(t, html, "Ana")
	assert.Contains(t, html, "http://example.com/ana.png")
}
