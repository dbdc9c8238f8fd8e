package payments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	lastRequest OrderRequest
	order       *Order
	err         error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, in OrderRequest) (*Order, error) {
	f.lastRequest = in
	if f.err != nil {
		return nil, f.err
	}
	if f.order != nil {
		return f.order, nil
	}
	return &Order{
		ID:               "order_test123",
		AmountMinorUnits: in.AmountMinorUnits,
		Currency:         in.Currency,
		Receipt:          in.Receipt,
		Status:           "created",
	}, nil
}

func TestCreateIntent(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewIntentService(gateway)

	intent, err := svc.CreateIntent(context.Background(), CreateIntentInput{
		UserID:           42,
		PlanID:           "pro_monthly",
		AmountMajorUnits: 499,
	})
	require.NoError(t, err)

	assert.Equal(t, "order_test123", intent.IntentID)
	assert.Equal(t, int64(49900), intent.AmountMinorUnits)
	assert.Equal(t, "INR", intent.Currency)

	assert.Equal(t, int64(49900), gateway.lastRequest.AmountMinorUnits)
	assert.Equal(t, "42", gateway.lastRequest.Notes["userId"])
	assert.Equal(t, "pro_monthly", gateway.lastRequest.Notes["planId"])
	assert.True(t, strings.HasPrefix(gateway.lastRequest.Receipt, "receipt_order_"))
}

func TestCreateIntentExplicitCurrency(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewIntentService(gateway)

	intent, err := svc.CreateIntent(context.Background(), CreateIntentInput{
		UserID:           7,
		PlanID:           "oYxMlLkXbNtZDS3zCikc_monthly",
		AmountMajorUnits: 199,
		Currency:         "usd",
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", intent.Currency)
	assert.Equal(t, "USD", gateway.lastRequest.Currency)
}

func TestCreateIntentValidation(t *testing.T) {
	svc := NewIntentService(&fakeGateway{})

	cases := []CreateIntentInput{
		{UserID: 0, PlanID: "pro_monthly", AmountMajorUnits: 499},
		{UserID: 42, PlanID: "", AmountMajorUnits: 499},
		{UserID: 42, PlanID: "pro_monthly", AmountMajorUnits: 0},
		{UserID: 42, PlanID: "pro_monthly", AmountMajorUnits: -10},
	}
	for _, in := range cases {
		_, err := svc.CreateIntent(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
}

func TestCreateIntentGatewayFailure(t *testing.T) {
	gatewayErr := errors.New("gateway unavailable")
	svc := NewIntentService(&fakeGateway{err: gatewayErr})

	_, err := svc.CreateIntent(context.Background(), CreateIntentInput{
		UserID:           42,
		PlanID:           "pro_monthly",
		AmountMajorUnits: 499,
	})
	assert.ErrorIs(t, err, gatewayErr)
}

func TestCreateIntentUniqueReceipts(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewIntentService(gateway)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		_, err := svc.CreateIntent(context.Background(), CreateIntentInput{
			UserID:           42,
			PlanID:           "pro_monthly",
			AmountMajorUnits: 499,
		})
		require.NoError(t, err)
		assert.False(t, seen[gateway.lastRequest.Receipt])
		seen[gateway.lastRequest.Receipt] = true
	}
}
