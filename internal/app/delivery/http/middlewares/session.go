package middlewares

import (
	"context"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const maxSessionIDLength = 128

// Session reads the timeline session id from X-Session-ID, issuing a new one
// when the client has none. The id is echoed back on every response.
func (m *Middlewares) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(constvars.HeaderXSessionID))
		if sessionID == "" || len(sessionID) > maxSessionIDLength {
			sessionID = utils.GenerateSessionID()
			requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			m.Log.Info("Middlewares.Session issued new session",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, sessionID),
			)
		}

		w.Header().Set(constvars.HeaderXSessionID, sessionID)
		ctx := context.WithValue(r.Context(), constvars.CONTEXT_SESSION_ID_KEY, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
