package botserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var errMissingToken = errors.New("missing bearer token")

// bearerToken extracts the token from "Authorization: Bearer ..." or, for
// clients that cannot set headers on an upgrade, the token query parameter.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// authenticate validates an HS256 token signed with secret and returns its
// subject.
func authenticate(r *http.Request, secret []byte) (string, error) {
	raw := bearerToken(r)
	if raw == "" {
		return "", errMissingToken
	}
	tok, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	return sub, nil
}

// IssueToken signs claims for subject with secret. Used by tooling and tests.
func IssueToken(secret []byte, subject string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = subject
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
