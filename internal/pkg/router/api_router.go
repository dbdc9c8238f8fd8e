package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/vibhu-thankii/aether-ai/app/controllers"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// The webhook authenticates via its signature, not an API key.
	v1.Post("/payments/webhook", controllers.HandlePaymentWebhook)

	authed := v1.Group("", middleware.APIKeyAuthMiddleware())
	authed.Post("/payments/intent", controllers.HandleCreatePaymentIntent)

	authed.Get("/agents", controllers.HandleListAgents)
	authed.Get("/agents/:id", controllers.HandleGetAgent)
	authed.Get("/agents/:id/reviews", controllers.HandleListReviews)
	authed.Post("/agents/:id/reviews", controllers.HandleSubmitReview)

	authed.Get("/me/entitlement", controllers.HandleGetEntitlement)
	authed.Get("/me/conversations", controllers.HandleListConversations)
	authed.Get("/me/profile", controllers.HandleGetProfile)
	authed.Put("/me/profile", controllers.HandleUpdateProfile)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
