package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultCurrency = "€"
	dateLayout      = "2006-01-02 15:04:05"
)

// Formatter renders money, names and dates for reports.
type Formatter struct {
	currency string
	numbers  *message.Printer
}

// NewFormatter uses DefaultCurrency when currency is empty.
func NewFormatter(currency string) *Formatter {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Formatter{
		currency: currency,
		numbers:  message.NewPrinter(language.English),
	}
}

func (f *Formatter) Currency() string { return f.currency }

// Price renders cents as units with two decimals, thousands separators and
// the currency suffix: 106572 -> "1,065.72€".
func (f *Formatter) Price(cents int64) string {
	sign := ""
	// uint64 keeps math.MinInt64 representable
	abs := uint64(cents)
	if cents < 0 {
		sign = "-"
		abs = uint64(-(cents + 1)) + 1
	}
	return fmt.Sprintf("%s%s.%02d%s", sign, f.numbers.Sprintf("%d", abs/100), abs%100, f.currency)
}

// Name renders "Last, First", or whichever part is set.
func (f *Formatter) Name(first, last string) string {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return last + ", " + first
}

func (f *Formatter) Date(t time.Time) string {
	return t.Format(dateLayout)
}
