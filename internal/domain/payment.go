package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment records one settlement attempt against an order. A row exists only
// once the gateway has answered; it is never mutated afterward. A FAILED row
// may be superseded by a later attempt.
type Payment struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	PaymentNumber string
	Amount        decimal.Decimal
	PaymentMethod string
	GatewayKey    string
	Status        PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPaymentNumber builds the client-facing payment identifier. Every writer
// of payment rows must use it so the format stays uniform.
func NewPaymentNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])
	return "PAY-" + t.Format("20060102") + "-" + suffix
}
