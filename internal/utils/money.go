package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var kesPrinter = message.NewPrinter(language.English)

// FormatKES renders an amount the way the front-end does, e.g. "KES 1,700".
func FormatKES(amount int64) string {
	return kesPrinter.Sprintf("KES %d", amount)
}
