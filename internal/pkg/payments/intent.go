package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vibhu-thankii/aether-ai/internal/pkg/env"
)

// ErrInvalidRequest marks client input errors on intent creation. These are
// never retried automatically.
var ErrInvalidRequest = errors.New("invalid intent request")

// GatewayClient is the slice of the payment gateway the intent service needs.
type GatewayClient interface {
	CreateOrder(ctx context.Context, in OrderRequest) (*Order, error)
}

// IntentService creates payment intents. It holds no persistent state of its
// own: the issued intent id plus the notes metadata are the whole contract
// between here and the webhook path.
type IntentService struct {
	client          GatewayClient
	defaultCurrency string
}

// NewIntentService creates an intent service from an injected gateway client.
func NewIntentService(client GatewayClient) *IntentService {
	return &IntentService{
		client:          client,
		defaultCurrency: strings.ToUpper(strings.TrimSpace(env.GetEnv("PAYMENT_DEFAULT_CURRENCY", "INR"))),
	}
}

// CreateIntent validates the request and asks the gateway for an order.
// Creating an intent has no entitlement side effect, so no idempotency key
// is needed at this stage.
func (s *IntentService) CreateIntent(ctx context.Context, in CreateIntentInput) (*OrderIntent, error) {
	if in.UserID == 0 || strings.TrimSpace(in.PlanID) == "" || in.AmountMajorUnits <= 0 {
		return nil, fmt.Errorf("%w: user_id, plan_id and a positive amount are required", ErrInvalidRequest)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	receipt, err := generateReceipt()
	if err != nil {
		return nil, err
	}

	order, err := s.client.CreateOrder(ctx, OrderRequest{
		// Gateways charge in the smallest currency unit.
		AmountMinorUnits: in.AmountMajorUnits * 100,
		Currency:         currency,
		Receipt:          receipt,
		Notes: map[string]string{
			"userId": strconv.FormatUint(uint64(in.UserID), 10),
			"planId": strings.TrimSpace(in.PlanID),
		},
	})
	if err != nil {
		return nil, err
	}

	return &OrderIntent{
		IntentID:         order.ID,
		AmountMinorUnits: order.AmountMinorUnits,
		Currency:         order.Currency,
	}, nil
}

func generateReceipt() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "receipt_order_" + hex.EncodeToString(b), nil
}
