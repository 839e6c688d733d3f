package capgains

// GainLossSummary aggregates the realized outcomes of one tax year into the
// short-term and long-term totals that capital-gains reporting lines consume.
type GainLossSummary struct {
	TaxYear int

	ShortTermProceeds  Money
	ShortTermCostBasis Money
	ShortTermGainLoss  Money

	LongTermProceeds  Money
	LongTermCostBasis Money
	LongTermGainLoss  Money

	TotalGainLoss      Money
	WashSaleDisallowed Money
}

// CalculateGainLossSummary sums the sell transactions of the given tax year.
// Each sale lands wholly in the bucket of its IsShortTerm flag, consistent
// with that flag being binary even when the sale's gain was computed as a
// short/long split.
func CalculateGainLossSummary(transactions []StockTransaction, taxYear int) GainLossSummary {
	s := GainLossSummary{TaxYear: taxYear}
	for _, tx := range transactions {
		if tx.Type != Sell || tx.Date.Year() != taxYear {
			continue
		}
		if tx.IsShortTerm {
			s.ShortTermProceeds = s.ShortTermProceeds.Add(tx.Proceeds)
			s.ShortTermCostBasis = s.ShortTermCostBasis.Add(tx.CostBasis)
			s.ShortTermGainLoss = s.ShortTermGainLoss.Add(tx.GainLoss)
		} else {
			s.LongTermProceeds = s.LongTermProceeds.Add(tx.Proceeds)
			s.LongTermCostBasis = s.LongTermCostBasis.Add(tx.CostBasis)
			s.LongTermGainLoss = s.LongTermGainLoss.Add(tx.GainLoss)
		}
		s.WashSaleDisallowed = s.WashSaleDisallowed.Add(tx.WashSaleDisallowedLoss)
	}
	s.TotalGainLoss = s.ShortTermGainLoss.Add(s.LongTermGainLoss)
	return s
}

// TaxYearSummary aggregates realized gains across every investment in the
// portfolio for one tax year.
func (p Portfolio) TaxYearSummary(taxYear int) GainLossSummary {
	return CalculateGainLossSummary(p.Transactions(), taxYear)
}
