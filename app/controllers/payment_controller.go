package controllers

import (
	"errors"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/vibhu-thankii/aether-ai/internal/pkg/database"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/entitlements"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/payments"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/usercontext"
)

var (
	intentService   *payments.IntentService
	intentOnce      sync.Once
	webhookDispatch *payments.Dispatcher
	webhookOnce     sync.Once
)

func getIntentService() *payments.IntentService {
	intentOnce.Do(func() {
		if intentService == nil {
			intentService = payments.NewIntentService(payments.NewRazorpayClientFromEnv())
		}
	})
	return intentService
}

func getWebhookDispatcher() *payments.Dispatcher {
	webhookOnce.Do(func() {
		if webhookDispatch == nil {
			webhookDispatch = payments.NewDispatcherFromEnv(entitlements.NewLedgerFromDB(database.GetDB()))
		}
	})
	return webhookDispatch
}

// SetIntentService overrides the intent service, for tests.
func SetIntentService(s *payments.IntentService) {
	intentService = s
	intentOnce = sync.Once{}
}

// SetWebhookDispatcher overrides the webhook dispatcher, for tests.
func SetWebhookDispatcher(d *payments.Dispatcher) {
	webhookDispatch = d
	webhookOnce = sync.Once{}
}

type createIntentRequest struct {
	PlanID   string `json:"plan_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// HandleCreatePaymentIntent creates a gateway order for the authenticated
// user. The issued order id plus the notes metadata embedded at the gateway
// are the only correlation between this call and the later webhook.
func HandleCreatePaymentIntent(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	var req createIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	intent, err := getIntentService().CreateIntent(c.Context(), payments.CreateIntentInput{
		UserID:           userCtx.UserID,
		PlanID:           req.PlanID,
		AmountMajorUnits: req.Amount,
		Currency:         req.Currency,
	})
	if err != nil {
		if errors.Is(err, payments.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
		}
		log.Printf("order creation failed for user %d plan %s: %v", userCtx.UserID, req.PlanID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Error creating order"})
	}

	return c.Status(fiber.StatusOK).JSON(intent)
}

// HandlePaymentWebhook receives gateway confirmation events. The response
// code is the acknowledgement protocol: 2xx acks the delivery, 5xx leaves
// it unacknowledged so the gateway redelivers. Signature failures are 400
// because redelivering a forged or corrupted body can never succeed.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	signature := c.Get("X-Razorpay-Signature")

	result, err := getWebhookDispatcher().Handle(c.Context(), rawBody, signature)
	switch result {
	case payments.ResultAccepted:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	case payments.ResultIgnored:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ignored"})
	case payments.ResultRejected:
		log.Printf("webhook rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid webhook delivery"})
	default:
		log.Printf("webhook processing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Webhook processing failed"})
	}
}
