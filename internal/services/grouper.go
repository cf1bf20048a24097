package services

import (
	"sort"

	"subscription-tracker/internal/models"
)

// GroupByMerchant partitions transactions by exact merchant label. Transactions
// without a merchant are dropped. Each group is ordered by date, keeping input
// order for equal dates.
func GroupByMerchant(transactions []models.Transaction) map[string][]models.Transaction {
	groups := make(map[string][]models.Transaction)
	for _, t := range transactions {
		if !t.HasMerchant() {
			continue
		}
		groups[t.Merchant] = append(groups[t.Merchant], t)
	}

	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})
	}
	return groups
}

// SortedMerchants returns the group keys in ascending order
func SortedMerchants(groups map[string][]models.Transaction) []string {
	merchants := make([]string, 0, len(groups))
	for merchant := range groups {
		merchants = append(merchants, merchant)
	}
	sort.Strings(merchants)
	return merchants
}
