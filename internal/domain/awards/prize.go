package awards

import "github.com/shopspring/decimal"

const (
	defaultWeeklyPrize  = 300000
	defaultMonthlyPrize = 500000
)

type Prizes struct {
	Weekly  decimal.Decimal
	Monthly decimal.Decimal
}

func DefaultPrizes() Prizes {
	return Prizes{
		Weekly:  decimal.NewFromInt(defaultWeeklyPrize),
		Monthly: decimal.NewFromInt(defaultMonthlyPrize),
	}
}

// SplitPrize divides a prize evenly among tied winners.
func SplitPrize(prize decimal.Decimal, winners int) decimal.Decimal {
	if winners <= 0 {
		return decimal.Zero
	}
	return prize.Div(decimal.NewFromInt(int64(winners)))
}

// FormatPrize renders an amount the way the league reports it: 1.2M, 450K or 900.
func FormatPrize(amount decimal.Decimal) string {
	million := decimal.NewFromInt(1_000_000)
	thousand := decimal.NewFromInt(1_000)
	switch {
	case amount.GreaterThanOrEqual(million):
		return amount.Div(million).StringFixed(1) + "M"
	case amount.GreaterThanOrEqual(thousand):
		return amount.Div(thousand).StringFixed(0) + "K"
	default:
		return amount.StringFixed(0)
	}
}
