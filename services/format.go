package services

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var euroPrinter = message.NewPrinter(language.English)

// FormatEuro renders a whole euro amount with thousands separators.
func FormatEuro(amount float64) string {
	return euroPrinter.Sprintf("%.0f", amount)
}
