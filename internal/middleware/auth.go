package middleware

import (
	"context"
	"net/http"
	"time"

	"ticket-store/internal/logger"
	"ticket-store/internal/ticket"
)

// SessionKeyHeader carries the opaque session key the client holds in
// place of the session payload.
const SessionKeyHeader = "X-Session-Key"

// unexported, collision-proof context key
type payloadContextKeyType struct{}

var payloadKey = payloadContextKeyType{}

// PayloadFromContext extracts the validated session payload from context.
func PayloadFromContext(ctx context.Context) (*ticket.Payload, bool) {
	p, ok := ctx.Value(payloadKey).(*ticket.Payload)
	return p, ok
}

type TicketMiddleware struct {
	Store ticket.Store
}

func NewTicketMiddleware(store ticket.Store) *TicketMiddleware {
	return &TicketMiddleware{Store: store}
}

func (m *TicketMiddleware) RequireTicket(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read session key
		key := r.Header.Get(SessionKeyHeader)
		if key == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 2. Load session
		p, err := m.Store.Retrieve(r.Context(), key)
		if err != nil {
			// Corrupt record or backend failure: fail closed, but log
			// it as an anomaly rather than a routine logout.
			logger.Error("session retrieval failed", map[string]any{
				"error": err.Error(),
			})
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if p == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 3. Enforce expiry even if the backend sweep lags
		if p.ExpiresAt != nil && time.Now().After(*p.ExpiresAt) {
			_ = m.Store.Remove(r.Context(), key)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 4. Attach payload to context
		ctx := context.WithValue(r.Context(), payloadKey, p)

		// 5. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
