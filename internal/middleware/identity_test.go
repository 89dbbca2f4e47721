package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func newIdentityTestApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", Identity(secret), func(c *fiber.Ctx) error {
		return c.SendString(UserEmail(c))
	})

	return app
}

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func resolveEmail(t *testing.T, app *fiber.App, configure func(*http.Request)) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	configure(req)
	// fiber serializes the request from RequestURI, so re-sync it after
	// configure may have modified the URL (e.g. RawQuery).
	req.RequestURI = req.URL.RequestURI()

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := make([]byte, 256)
	n, _ := resp.Body.Read(body)
	return string(body[:n])
}

func TestIdentityFromBearerToken(t *testing.T) {
	app := newIdentityTestApp(testSecret)
	token := signedToken(t, testSecret, jwt.MapClaims{
		"email": "token@school.edu",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	email := resolveEmail(t, app, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, "token@school.edu", email)
}

func TestIdentityFromSubjectClaim(t *testing.T) {
	app := newIdentityTestApp(testSecret)
	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub": "subject@school.edu",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	email := resolveEmail(t, app, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, "subject@school.edu", email)
}

func TestIdentityTokenOutranksHeaderAndQuery(t *testing.T) {
	app := newIdentityTestApp(testSecret)
	token := signedToken(t, testSecret, jwt.MapClaims{
		"email": "token@school.edu",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	email := resolveEmail(t, app, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-User-Email", "header@school.edu")
		req.URL.RawQuery = "userEmail=query@school.edu"
	})
	require.Equal(t, "token@school.edu", email)
}

func TestIdentityHeaderOutranksQuery(t *testing.T) {
	app := newIdentityTestApp(testSecret)

	email := resolveEmail(t, app, func(req *http.Request) {
		req.Header.Set("X-User-Email", "header@school.edu")
		req.URL.RawQuery = "userEmail=query@school.edu"
	})
	require.Equal(t, "header@school.edu", email)
}

func TestIdentityQueryFallback(t *testing.T) {
	app := newIdentityTestApp(testSecret)

	email := resolveEmail(t, app, func(req *http.Request) {
		req.URL.RawQuery = "userEmail=query@school.edu"
	})
	require.Equal(t, "query@school.edu", email)
}

func TestIdentityIgnoresForgedToken(t *testing.T) {
	app := newIdentityTestApp(testSecret)
	forged := signedToken(t, "wrong-secret", jwt.MapClaims{
		"email": "attacker@school.edu",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	email := resolveEmail(t, app, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+forged)
	})
	require.Empty(t, email)
}

func TestIdentityAnonymousRequestPassesThrough(t *testing.T) {
	app := newIdentityTestApp(testSecret)

	email := resolveEmail(t, app, func(*http.Request) {})
	require.Empty(t, email)
}
