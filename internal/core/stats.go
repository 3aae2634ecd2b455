package core

import "github.com/shopspring/decimal"

// SummaryStats is a derived view over a ledger. It is never stored,
// only recomputed on demand.
type SummaryStats struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
}

// ComputeStats sums incomes and expenses in a single pass and derives the
// running balance from the initial balance. Pure and deterministic:
// recomputing from the same inputs always yields the same result.
func ComputeStats(transactions []Transaction, initialBalance decimal.Decimal) SummaryStats {
	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case Income:
			totalIncome = totalIncome.Add(t.Amount)
		case Expense:
			totalExpense = totalExpense.Add(t.Amount)
		}
	}
	return SummaryStats{
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Balance:      initialBalance.Add(totalIncome).Sub(totalExpense),
	}
}
