package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// StatusDone is the only gateway status treated as a successful settlement.
// Every other status string is a decline.
const StatusDone = "DONE"

// ConfirmResult is the normalized gateway answer. Receiving one, whatever the
// status, means the gateway made a decision; transport failures surface as
// errors instead.
type ConfirmResult struct {
	Status     string `json:"status"`
	Method     string `json:"method"`
	PaymentKey string `json:"paymentKey"`
}

type PaymentGateway interface {
	// Confirm asks the processor to settle the payment identified by
	// paymentKey against the given order and amount.
	Confirm(ctx context.Context, paymentKey, orderNumber string, amount decimal.Decimal) (*ConfirmResult, error)

	// Lookup fetches the authoritative settlement state for an order, or
	// (nil, nil) when the gateway has never seen it. Used by reconciliation.
	Lookup(ctx context.Context, orderNumber string) (*ConfirmResult, error)
}
