package auth

import (
	"net/http"
	"strings"
)

// TokenCookieName is the cookie the web client stores the session token in.
const TokenCookieName = "auth-token"

const bearerPrefix = "Bearer "

// extractor pulls a candidate token out of a request, "" when absent.
type extractor func(*http.Request) string

// Extraction strategies in priority order: cookie wins over header.
var extractors = []extractor{fromCookie, fromBearerHeader}

// ResolveToken returns the first token found, or "" when the request
// carries none. Absence is a normal outcome, never an error.
func ResolveToken(r *http.Request) string {
	for _, ex := range extractors {
		if token := ex(r); token != "" {
			return token
		}
	}
	return ""
}

func fromCookie(r *http.Request) string {
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func fromBearerHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}
