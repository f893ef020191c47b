package summarizer

import (
	"errors"
	"slices"
)

var ErrInvalidBudget = errors.New("invalid minutes")

// Policy is what a listening-time budget buys: how many articles and how long
// each summary may be.
type Policy struct {
	Articles         int
	MaxSummaryTokens int
}

var policies = map[int]Policy{
	5:  {Articles: 5, MaxSummaryTokens: 40},
	10: {Articles: 8, MaxSummaryTokens: 80},
	20: {Articles: 12, MaxSummaryTokens: 140},
	30: {Articles: 20, MaxSummaryTokens: 220},
	60: {Articles: 30, MaxSummaryTokens: 320},
}

func PolicyFor(minutes int) (Policy, error) {
	policy, ok := policies[minutes]
	if !ok {
		return Policy{}, ErrInvalidBudget
	}
	return policy, nil
}

// Budgets returns the accepted minute values in ascending order.
func Budgets() []int {
	budgets := make([]int, 0, len(policies))
	for minutes := range policies {
		budgets = append(budgets, minutes)
	}
	slices.Sort(budgets)
	return budgets
}
