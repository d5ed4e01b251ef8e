package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidDate the text matches none of the accepted date forms
var ErrInvalidDate = errors.New("unrecognized date")

// dateLayouts accepted layouts, tried in order.
// Go's "2"/"1" verbs accept one or two digits, so 01-03-2024 and 1-3-2024 both match.
var dateLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2006-1-2",
	"2006/1/2",
	"2-1-06",
	"2/1/06",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Excel serial window handled as dates: 1910-01-01 .. 2099-12-31
const (
	minExcelSerial = 3654
	maxExcelSerial = 73415
)

// ParseDate parses day-first dates (DD-MM-YYYY, DD/MM/YYYY, 2-digit years),
// ISO dates and raw Excel serial numbers. The result is a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < minExcelSerial || serial > maxExcelSerial {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return truncateDay(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
