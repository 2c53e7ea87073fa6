package auth

import (
	"fmt"
	"io"
	"net/url"
	"strings"
)

// TokenURL builds the implicit-flow authorization link. Opening it in a
// browser redirects to blank.html with access_token in the fragment.
func TokenURL(oauthURI, clientID, scopes, version string) string {
	base := strings.TrimRight(oauthURI, "/")

	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("display", "page")
	q.Set("redirect_uri", base+"/blank.html")
	q.Set("scope", scopes)
	q.Set("response_type", "token")
	q.Set("v", version)

	return base + "/authorize?" + q.Encode()
}

// TokenFromRedirect extracts access_token and user_id from the redirect URL
// the browser lands on. A bare token is returned unchanged.
func TokenFromRedirect(s string) (token, userID string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", ErrInvalidCredentials
	}

	i := strings.Index(s, "#")
	if i < 0 {
		if strings.Contains(s, "://") {
			return "", "", fmt.Errorf("%w: redirect URL has no fragment", ErrInvalidCredentials)
		}
		return s, "", nil
	}

	values, err := url.ParseQuery(s[i+1:])
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	token = values.Get("access_token")
	if token == "" {
		return "", "", fmt.Errorf("%w: access_token missing from redirect URL", ErrInvalidCredentials)
	}
	return token, values.Get("user_id"), nil
}

// ShowTokenGuide writes step-by-step instructions for obtaining a token
func ShowTokenGuide(w io.Writer, link string) {
	rule := strings.Repeat("=", 80)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "📚 VK ACCESS TOKEN GUIDE")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🌐 STEP 1: Open this link in a browser where you are logged in to VK:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "   %s\n", link)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "✅ STEP 2: Allow access for the application")
	fmt.Fprintln(w, "   You will land on a blank page.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "📋 STEP 3: Copy the address bar")
	fmt.Fprintln(w, "   It looks like .../blank.html#access_token=...&expires_in=0&user_id=...")
	fmt.Fprintln(w, "   Paste the whole URL or just the access_token value.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "⚠️  SECURITY NOTES:")
	fmt.Fprintln(w, "   • The token grants access to your account. Never share it.")
	fmt.Fprintln(w, "   • It is stored in the system keychain or an encrypted file.")
	fmt.Fprintln(w, "   • Revoke it in VK settings under Apps if it leaks.")
	fmt.Fprintln(w, rule)
}
