package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireTicket adapts the net/http TicketMiddleware to Gin, so the
// same validation path serves both routers.
func GinRequireTicket(m *TicketMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		// Wrap Gin request with net/http ticket middleware
		handler := m.RequireTicket(next)

		// Execute middleware chain
		handler.ServeHTTP(c.Writer, c.Request)

		// If the middleware already handled the response, stop Gin chain
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}
