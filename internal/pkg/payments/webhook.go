package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/vibhu-thankii/aether-ai/internal/pkg/entitlements"
	"github.com/vibhu-thankii/aether-ai/internal/pkg/env"
)

const (
	EventSubscriptionCharged = "subscription.charged"
	EventOrderPaid           = "order.paid"
)

// Result is the dispatcher's verdict on one delivery attempt.
type Result string

const (
	// ResultAccepted means a grant was applied.
	ResultAccepted Result = "accepted"
	// ResultIgnored means the event was acknowledged without side effects
	// (unknown type, or a charge that cannot be attributed to a user).
	ResultIgnored Result = "ignored"
	// ResultRejected means the delivery is bad and must not be retried.
	ResultRejected Result = "rejected"
	// ResultFailed means a transient failure; the delivery must stay
	// unacknowledged so the gateway redelivers it.
	ResultFailed Result = "failed"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// webhookEnvelope mirrors the gateway's delivery shape. Only the notes
// metadata matters: it carries the correlation ids the intent service
// embedded at order time.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Subscription struct {
			Entity webhookEntity `json:"entity"`
		} `json:"subscription"`
		Order struct {
			Entity webhookEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type webhookEntity struct {
	ID    string            `json:"id"`
	Notes map[string]string `json:"notes"`
}

// Dispatcher authenticates confirmation events and routes them to the
// ledger. It keeps no delivery-id table: grants are union writes, so
// redelivery and out-of-order delivery are harmless by construction.
type Dispatcher struct {
	secret string
	ledger *entitlements.Ledger
}

// NewDispatcher creates a dispatcher with an explicit secret.
func NewDispatcher(secret string, ledger *entitlements.Ledger) *Dispatcher {
	return &Dispatcher{secret: secret, ledger: ledger}
}

// NewDispatcherFromEnv reads the shared webhook secret from the environment.
func NewDispatcherFromEnv(ledger *entitlements.Ledger) *Dispatcher {
	return NewDispatcher(env.GetEnv("RAZORPAY_WEBHOOK_SECRET", ""), ledger)
}

// Handle processes one webhook delivery. The signature is verified against
// the exact bytes received before the payload is parsed or trusted in any
// way. Unknown event types succeed without side effects so the gateway does
// not retry them forever.
func (d *Dispatcher) Handle(ctx context.Context, rawBody []byte, signatureHeader string) (Result, error) {
	if !VerifyWebhookSignature(rawBody, signatureHeader, d.secret) {
		return ResultRejected, ErrInvalidSignature
	}

	var event webhookEnvelope
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return ResultRejected, ErrMalformedPayload
	}

	switch event.Event {
	case EventSubscriptionCharged:
		return d.handleSubscriptionCharged(ctx, event.Payload.Subscription.Entity)
	case EventOrderPaid:
		return d.handleOrderPaid(ctx, event.Payload.Order.Entity)
	default:
		return ResultIgnored, nil
	}
}

// handleSubscriptionCharged grants pro access for a charged subscription.
func (d *Dispatcher) handleSubscriptionCharged(ctx context.Context, entity webhookEntity) (Result, error) {
	userID, ok := parseUserID(entity.Notes["userId"])
	if !ok {
		// A charge we cannot attribute is acknowledged, not failed:
		// redelivering it would never produce a grant either.
		log.Printf("webhook %s without attributable userId (entity %s), ignoring", EventSubscriptionCharged, entity.ID)
		return ResultIgnored, nil
	}

	if err := d.ledger.GrantPro(ctx, userID); err != nil {
		return ResultFailed, err
	}
	return ResultAccepted, nil
}

// handleOrderPaid routes one-off orders by their plan id: pro plans grant
// the subscription flag, single-agent plans unlock that agent.
func (d *Dispatcher) handleOrderPaid(ctx context.Context, entity webhookEntity) (Result, error) {
	userID, ok := parseUserID(entity.Notes["userId"])
	if !ok {
		log.Printf("webhook %s without attributable userId (entity %s), ignoring", EventOrderPaid, entity.ID)
		return ResultIgnored, nil
	}

	planID := strings.TrimSpace(entity.Notes["planId"])
	if agentID := agentIDFromPlan(planID); agentID != "" {
		if err := d.ledger.GrantAgent(ctx, userID, agentID); err != nil {
			return ResultFailed, err
		}
		return ResultAccepted, nil
	}

	if err := d.ledger.GrantPro(ctx, userID); err != nil {
		return ResultFailed, err
	}
	return ResultAccepted, nil
}

func parseUserID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// agentIDFromPlan extracts the agent id from single-agent plan ids of the
// form "<agentId>_<interval>". Subscription plans ("pro_monthly",
// "pro_annually") and bare plan ids return empty.
func agentIDFromPlan(planID string) string {
	if planID == "" || strings.HasPrefix(planID, "pro_") {
		return ""
	}
	idx := strings.Index(planID, "_")
	if idx <= 0 {
		return ""
	}
	return planID[:idx]
}
