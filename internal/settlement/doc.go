// Package settlement computes equal-split balances for a set of shared
// expenses and the transfers that settle them.
//
// The package is pure: every call reads only its arguments and allocates
// its own working state, so it is safe for concurrent use without locking.
//
// Amounts are exact decimals. Nothing inside the engine is rounded; callers
// that display results round at the edge (see FormatAmount).
//
// Usage:
//
//	balances, err := settlement.ComputeBalances(expenses, []string{"Alice", "Bob", "Carol"})
//	if err != nil {
//		return err
//	}
//	transfers, err := settlement.ComputeSettlement(balances)
package settlement
