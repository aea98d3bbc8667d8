package app

import (
	"ticket-store/internal/config"
	"ticket-store/internal/handler"
	"ticket-store/internal/middleware"
	"ticket-store/internal/ticket"

	"github.com/gin-gonic/gin"
)

func setupHTTP(cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	ticketStore := ticket.NewCacheStore(infra.Cache, cfg.KeyPrefix)

	ticketHandler := handler.NewHandler(ticketStore)

	ticketMiddleware := middleware.NewTicketMiddleware(ticketStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Ticket API
	// ----------------------------

	ticketHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Validation example
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireTicket(ticketMiddleware))

	api.GET("/whoami", func(c *gin.Context) {
		p, _ := middleware.PayloadFromContext(c.Request.Context())
		c.JSON(200, gin.H{
			"subject": p.Subject,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, infra.cleanup, nil
}
