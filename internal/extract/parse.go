package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func parseAmount(text string) (decimal.Decimal, bool) {
	matches := amountRegex.FindStringSubmatch(text)
	if len(matches) < 2 {
		return decimal.Zero, false
	}
	amount, err := core.ParseAmount(matches[1])
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func parseMerchant(text string, re *regexp.Regexp, fallback string) string {
	if matches := re.FindStringSubmatch(text); len(matches) > 1 {
		if m := strings.TrimSpace(matches[1]); len(m) >= 3 {
			return m
		}
	}
	return fallback
}

func parseDirection(lower string, creditWords []string) core.Direction {
	for _, w := range creditWords {
		if strings.Contains(lower, w) {
			return core.Credit
		}
	}
	return core.Debit
}

func parseAccountSuffix(text string) string {
	if matches := accountRegex.FindStringSubmatch(text); len(matches) > 1 {
		return matches[1]
	}
	return ""
}
