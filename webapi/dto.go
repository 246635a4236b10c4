package webapi

import "github.com/shopspring/decimal"

// AmountRequest is the body of deposit and withdraw requests. The amount
// travels as a JSON number or string with up to 4 fractional digits; the
// aggregate owns the precision check.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}
