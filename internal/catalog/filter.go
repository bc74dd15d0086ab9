package catalog

import "strings"

// applyFilter narrows the category result set by budget and usage. When the
// narrowed set is empty it falls back to the category set. The result never
// holds more than MaxResults products.
func applyFilter(byCategory []Product, f Filter) []Product {
	var matched []Product
	for _, p := range byCategory {
		if matchesBudget(p, f.Budget) && matchesUsage(p, f.Usage) {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		matched = byCategory
	}
	if len(matched) > MaxResults {
		matched = matched[:MaxResults]
	}
	return matched
}

func matchesBudget(p Product, budget string) bool {
	r, ok := BudgetRanges[budget]
	if !ok {
		return true
	}
	return r.Contains(p.Price)
}

func matchesUsage(p Product, usage string) bool {
	keywords, ok := UsageKeywords[usage]
	if !ok {
		return true
	}
	name := strings.ToLower(p.Name)
	for _, kw := range keywords {
		if strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
