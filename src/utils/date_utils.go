package utils

import (
	"fmt"
	"strings"
	"time"
)

// Formats tried in order when a caller does not pin one down. Saxo exports
// use 02-Jan-2006, IBKR 20060102, DEGIRO-style files 02-01-2006.
var defaultDateFormats = []string{
	"2006-01-02",
	"02-Jan-2006",
	"20060102",
	"02.01.2006",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
}

// minTradeDate guards against garbage rows; trading data older than this is
// assumed to be a parse artifact.
var minTradeDate = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// ParseDate parses a date string trying the given formats, or the default
// set when formats is nil, and rejects implausible values.
func ParseDate(value string, formats []string) (time.Time, error) {
	if formats == nil {
		formats = defaultDateFormats
	}
	trimmed := strings.TrimSpace(value)
	for _, format := range formats {
		t, err := time.Parse(format, trimmed)
		if err != nil {
			continue
		}
		if err := ValidateDate(t); err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q (tried %s)", value, strings.Join(formats, ", "))
}

// ValidateDate checks a date is plausible for financial data: not in the
// future and not before 1990.
func ValidateDate(t time.Time) error {
	if t.After(time.Now()) {
		return fmt.Errorf("date %s is in the future", t.Format("2006-01-02"))
	}
	if t.Before(minTradeDate) {
		return fmt.Errorf("date %s is before %s, too old for financial data",
			t.Format("2006-01-02"), minTradeDate.Format("2006-01-02"))
	}
	return nil
}
