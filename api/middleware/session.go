package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Iduk-Baduk/itseats-web-customer-sub001/pkg/logger"
)

// SessionHeader carries the client's cart session. A fresh one is issued when absent.
const SessionHeader = "X-Session-Id"

const maxSessionIDLength = 128

func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
			if sessionID == "" || len(sessionID) > maxSessionIDLength {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
