package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/campusmate/campusmate/internal/constants"
)

// NewPrinter returns a number printer for the given BCP 47 locale, falling back
// to the application default when the tag does not parse.
func NewPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(constants.DefaultLocale)
	}
	return message.NewPrinter(tag)
}

// FormatNaira renders a whole-naira amount with locale digit grouping.
func FormatNaira(p *message.Printer, amount int64) string {
	return p.Sprintf("₦%d", amount)
}

// FormatBudget renders a budget range such as "₦50,000 - ₦100,000".
func FormatBudget(p *message.Printer, min, max int64) string {
	return FormatNaira(p, min) + " - " + FormatNaira(p, max)
}
