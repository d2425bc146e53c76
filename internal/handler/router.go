package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kabb-server/internal/auth"
	"kabb-server/internal/database"
)

func NewRouter(
	tokens *auth.TokenManager,
	dbHealth database.Service,
	authHandler *AuthHandler,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	adminHandler *AdminHandler,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dbHealth.Health())
	})

	api := r.Group("/api")
	{
		api.POST("/auth/signup", authHandler.SignUp)
		api.POST("/auth/login", authHandler.Login)

		authed := api.Group("", auth.RequireAuth(tokens))
		{
			authed.POST("/orders", orderHandler.Create)
			authed.GET("/orders/:orderNumber", orderHandler.Get)
			authed.POST("/payments/confirm", paymentHandler.Confirm)
			authed.GET("/payments/:paymentNumber", paymentHandler.Get)
		}

		admin := api.Group("/admin", auth.RequireAuth(tokens), auth.RequireAdmin())
		{
			admin.GET("/licenses/pending", adminHandler.PendingLicenses)
			admin.POST("/licenses/:licenseId/approve", adminHandler.ApproveLicense)
			admin.POST("/licenses/:licenseId/reject", adminHandler.RejectLicense)
		}
	}

	return r
}
