package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"ticket-store/internal/logger"
	"ticket-store/internal/ticket"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store ticket.Store
}

func NewHandler(store ticket.Store) *Handler {
	return &Handler{
		store: store,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/tickets", h.Create)
	r.GET("/tickets/:key", h.Retrieve)
	r.PUT("/tickets/:key", h.Renew)
	r.DELETE("/tickets/:key", h.Remove)

	for _, route := range r.Routes() {
		log.Printf("[ROUTE] %s %s", route.Method, route.Path)
	}
}

type ticketRequest struct {
	Subject    string            `json:"subject"`
	Claims     map[string]string `json:"claims"`
	Properties map[string]string `json:"properties"`
	ExpiresAt  *time.Time        `json:"expires_at"`
}

func (r ticketRequest) payload() ticket.Payload {
	return ticket.Payload{
		Subject:    r.Subject,
		Claims:     r.Claims,
		Properties: r.Properties,
		IssuedAt:   time.Now().UTC(),
		ExpiresAt:  r.ExpiresAt,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	key, err := h.store.Store(c.Request.Context(), req.payload())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key":        key,
		"expires_at": req.ExpiresAt,
	})
}

func (h *Handler) Renew(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.store.Renew(c.Request.Context(), c.Param("key"), req.payload()); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Retrieve(c *gin.Context) {
	p, err := h.store.Retrieve(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.fail(c, err)
		return
	}

	// Absent is the normal answer for an expired, removed or unknown
	// session, so it maps to 404, never to 5xx.
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) Remove(c *gin.Context) {
	if err := h.store.Remove(c.Request.Context(), c.Param("key")); err != nil {
		h.fail(c, err)
		return
	}

	// Idempotent: removing an absent key succeeds too.
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ticket.ErrSerialization):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unencodable payload"})

	case errors.Is(err, ticket.ErrDeserialization):
		logger.Error("corrupt session record", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "corrupt session record"})

	case errors.Is(err, ticket.ErrBackendUnavailable):
		logger.Error("cache backend unavailable", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backend unavailable"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
