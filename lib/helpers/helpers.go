package helpers

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

func FormatPriceUS(price float64, escapeMarkdown bool) string {
	decimals := 6

	if price >= 1000 {
		decimals = 0
	} else if price > 1.2 {
		decimals = 2
	} else if price < 0.00001 {
		decimals = 8
	}

	thousandSeparator := ","

	p := message.NewPrinter(language.English)
	withCommaThousandSep := p.Sprintf("%.*f", decimals, price)
	formatted := strings.ReplaceAll(withCommaThousandSep, ",", thousandSeparator)

	if escapeMarkdown {
		return EscapeMarkdownV2(formatted)
	}
	return formatted
}

// FormatSignedUSD renders a dollar amount with an explicit sign.
func FormatSignedUSD(v float64) string {
	p := message.NewPrinter(language.English)
	if v >= 0 {
		return p.Sprintf("+$%.2f", v)
	}
	return p.Sprintf("-$%.2f", -v)
}

// FormatPercent renders a percentage with an explicit sign, e.g. "+2.4%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

func FormatDate(t time.Time) string {
	return t.Format("02.01 15:04")
}
