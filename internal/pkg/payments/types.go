package payments

// CreateIntentInput is the normalized request for a new payment intent.
// AmountMajorUnits is what the client displays; the gateway is paid in the
// smallest currency unit.
type CreateIntentInput struct {
	UserID           uint
	PlanID           string
	AmountMajorUnits int64
	Currency         string
}

// OrderIntent is the provisional record returned to the client. It is not
// persisted locally; the gateway owns its lifetime and the correlation
// metadata rides back in the confirmation event's notes.
type OrderIntent struct {
	IntentID         string `json:"order_id"`
	AmountMinorUnits int64  `json:"amount"`
	Currency         string `json:"currency"`
}

// OrderRequest is the order-create call sent to the gateway.
type OrderRequest struct {
	AmountMinorUnits int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Receipt          string            `json:"receipt"`
	Notes            map[string]string `json:"notes"`
}

// Order is the gateway's view of a created order.
type Order struct {
	ID               string `json:"id"`
	AmountMinorUnits int64  `json:"amount"`
	Currency         string `json:"currency"`
	Receipt          string `json:"receipt"`
	Status           string `json:"status"`
}
