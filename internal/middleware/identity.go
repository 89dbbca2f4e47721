package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userEmailKey = "user_email"

// Identity resolves the caller's email address and stores it in the
// request locals. Sources are tried in order of trust: a verified
// bearer token claim, the X-User-Email header, then the userEmail
// query parameter. Only the email is taken from the request; the
// caller's role is always re-derived from the stored classroom
// document, never from a claim.
func Identity(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if email := emailFromBearerToken(c, secret); email != "" {
			c.Locals(userEmailKey, email)
			return c.Next()
		}

		if email := strings.TrimSpace(c.Get("X-User-Email")); email != "" {
			c.Locals(userEmailKey, email)
			return c.Next()
		}

		if email := strings.TrimSpace(c.Query("userEmail")); email != "" {
			c.Locals(userEmailKey, email)
		}

		return c.Next()
	}
}

func emailFromBearerToken(c *fiber.Ctx, secret string) string {
	if secret == "" {
		return ""
	}

	authorization := c.Get("Authorization")
	const bearer = "Bearer "
	if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
		return ""
	}

	tokenString := strings.TrimSpace(authorization[len(bearer):])
	if tokenString == "" {
		return ""
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	for _, key := range []string{"email", "sub"} {
		if value, ok := claims[key]; ok {
			if email, ok := value.(string); ok && strings.Contains(email, "@") {
				return strings.TrimSpace(email)
			}
		}
	}

	return ""
}

// UserEmail returns the email resolved by the Identity middleware, or
// an empty string for anonymous requests.
func UserEmail(c *fiber.Ctx) string {
	if value := c.Locals(userEmailKey); value != nil {
		if email, ok := value.(string); ok {
			return email
		}
	}
	return ""
}
