package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func runMiddleware(secret, authHeader string) (int, string) {
	var subject string
	handler := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = Subject(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code, subject
}

func TestMiddlewareDisabledWithoutSecret(t *testing.T) {
	code, subject := runMiddleware("", "Bearer garbage")
	if code != http.StatusOK || subject != "" {
		t.Fatalf("empty secret should pass through: code=%d subject=%q", code, subject)
	}
}

func TestMiddlewareNoHeaderPassesThrough(t *testing.T) {
	code, subject := runMiddleware("s3cret", "")
	if code != http.StatusOK || subject != "" {
		t.Fatalf("tokenless request should pass through: code=%d subject=%q", code, subject)
	}
}

func TestMiddlewareValidToken(t *testing.T) {
	token := signToken(t, "s3cret", "clerk_1")
	code, subject := runMiddleware("s3cret", "Bearer "+token)
	if code != http.StatusOK || subject != "clerk_1" {
		t.Fatalf("valid token rejected: code=%d subject=%q", code, subject)
	}
}

func TestMiddlewareWrongSecret(t *testing.T) {
	token := signToken(t, "other", "clerk_1")
	code, _ := runMiddleware("s3cret", "Bearer "+token)
	if code != http.StatusUnauthorized {
		t.Fatalf("forged token accepted: code=%d", code)
	}
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	code, _ := runMiddleware("s3cret", "Token abc")
	if code != http.StatusUnauthorized {
		t.Fatalf("malformed header accepted: code=%d", code)
	}
}

func TestAuthorize(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if !Authorize(req.Context(), "anyone") {
		t.Error("requests without a verified subject are authorized as claimed")
	}
}
