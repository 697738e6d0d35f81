package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mhafiz71/linkup-gadgets/internal/auth"
)

type contextKey string

const (
	actorContextKey   contextKey = "actor"
	sessionContextKey contextKey = "session_id"

	sessionCookieName = "lg_session"
)

// SessionMiddleware assigns every visitor a session id cookie; the cart lives
// under it. The id is independent of authentication so anonymous carts
// survive login.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string

		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		} else {
			sessionID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Expires:  time.Now().Add(7 * 24 * time.Hour),
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MockAuthMiddleware simulates JWT authentication (replace with real JWT validation)
func MockAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// In production: validate the token from the Authorization header and
		// build the actor from its claims.
		actor := auth.Actor{
			UserID:       "1",
			Email:        "demo@linkupgadgets.test",
			VendorID:     1,
			Capabilities: []auth.Capability{auth.CapabilityCustomer, auth.CapabilityVendor},
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromContext(ctx context.Context) auth.Actor {
	if actor, ok := ctx.Value(actorContextKey).(auth.Actor); ok {
		return actor
	}
	return auth.Actor{}
}

func sessionFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionContextKey).(string); ok {
		return sessionID
	}
	return ""
}
