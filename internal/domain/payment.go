package domain

import "context"

// ChargeRequest is a one-shot charge against a client-held payment token.
// Amount is in minor currency units and is always computed server-side.
type ChargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Source   string `json:"source"`
}

// ChargeResult is the provider's record of a captured charge.
type ChargeResult struct {
	ChargeID string `json:"id"`
	Amount   int64  `json:"amount"`
}

// PaymentGateway is the external charge collaborator. Implementations must
// return ErrPaymentDeclined for an outright decline and ErrPaymentUncertain
// for timeouts or ambiguous responses; the two are remediated differently
// (retry-safe vs not) and must never be conflated.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
