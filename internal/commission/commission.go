package commission

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/glowora/glowora-backend/pkg/errors"
)

// PlatformRate is the platform's cut of every order total. It is deliberately
// independent from the affiliate points rate.
var PlatformRate = decimal.RequireFromString("0.10")

// Breakdown splits an order total into the platform commission and the
// seller's net amount. Commission + NetAmount always equals the input total.
type Breakdown struct {
	Commission decimal.Decimal `json:"commission"`
	NetAmount  decimal.Decimal `json:"net_amount"`
}

// Calculate returns the commission breakdown for a non-negative order total.
func Calculate(total decimal.Decimal) (Breakdown, error) {
	if total.IsNegative() {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "order total must be non-negative")
	}

	commission := total.Mul(PlatformRate).Round(2)
	return Breakdown{
		Commission: commission,
		NetAmount:  total.Sub(commission),
	}, nil
}
