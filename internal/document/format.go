package document

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "02/01/2006"

// FormatMoney renders an amount as en-GB pounds sterling, e.g. £1,234.50.
func FormatMoney(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "£" + b.String() + "." + frac
}

// FormatDate renders a date the en-GB way (dd/mm/yyyy).
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatRate drops trailing zeros so 20.00 prints as "20" and 17.50 as "17.5".
func FormatRate(rate decimal.Decimal) string {
	return rate.String()
}
