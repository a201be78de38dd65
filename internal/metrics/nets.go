package metrics

import "github.com/shopspring/decimal"

// NetsSummary is the per-trade net results plus win/loss accumulators.
type NetsSummary struct {
	Nets         []decimal.Decimal
	WinsSum      decimal.Decimal
	LossesSumAbs decimal.Decimal
	WinsCount    int
	LossesCount  int
}

// TradeCount is the number of trades, including break-even ones.
func (s NetsSummary) TradeCount() int {
	return len(s.Nets)
}

// DeriveNets computes net = gross - fee per trade and classifies it.
// A zero net is neither a win nor a loss but still counts as a trade.
func DeriveNets(trades []TradeRecord) NetsSummary {
	summary := NetsSummary{
		Nets:         make([]decimal.Decimal, 0, len(trades)),
		WinsSum:      decimal.Zero,
		LossesSumAbs: decimal.Zero,
	}

	for _, t := range trades {
		net := t.Net()
		switch net.Sign() {
		case 1:
			summary.WinsSum = summary.WinsSum.Add(net)
			summary.WinsCount++
		case -1:
			summary.LossesSumAbs = summary.LossesSumAbs.Add(net.Neg())
			summary.LossesCount++
		}
		summary.Nets = append(summary.Nets, net)
	}

	return summary
}
