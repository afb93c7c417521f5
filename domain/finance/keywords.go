package finance

import "strings"

// Category is a family of column names recognised by keyword
type Category string

const (
	CategoryRevenue    Category = "revenue"
	CategoryExpense    Category = "expense"
	CategoryAsset      Category = "asset"
	CategoryLiability  Category = "liability"
	CategoryInvestment Category = "investment"
	CategoryReturn     Category = "return"
)

// categoryKeywords are matched as case-insensitive substrings of column names
var categoryKeywords = map[Category][]string{
	CategoryRevenue:    {"revenue", "income", "sales"},
	CategoryExpense:    {"expense", "cost", "spend"},
	CategoryAsset:      {"asset"},
	CategoryLiability:  {"liab", "debt"},
	CategoryInvestment: {"invest"},
	CategoryReturn:     {"return", "roi"},
}

// FinancialKeywords mark a column name as plausibly financial during validation
var FinancialKeywords = []string{
	"amount", "price", "value", "cost", "revenue", "income", "expense",
	"balance", "profit", "sale", "asset", "liability", "cash", "fund",
	"tax", "interest", "dividend", "payment",
}

// Matches reports whether name belongs to the category
func Matches(c Category, name string) bool {
	return containsAny(strings.ToLower(name), categoryKeywords[c])
}

// MatchFirst returns the first name belonging to the category
func MatchFirst(c Category, names []string) (string, bool) {
	for _, n := range names {
		if Matches(c, n) {
			return n, true
		}
	}
	return "", false
}

// IsFinancialName reports whether name contains any of FinancialKeywords
func IsFinancialName(name string) bool {
	return containsAny(strings.ToLower(name), FinancialKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
