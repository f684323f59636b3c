package console

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrInvalidDateFormat = errors.New("invalid date format")

// ParseDate reads a yyyy-mm-dd date from the fixed positions 0-3, 5-6 and
// 8-9. Separators are not checked and trailing characters are ignored;
// out-of-range days and months roll over the way time.Date normalizes them.
func ParseDate(s string) (time.Time, error) {
	if len(s) < 10 {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrInvalidDateFormat)
	}

	year, err := strconv.Atoi(s[0:4])
	if err != nil {
		return time.Time{}, fmt.Errorf("%q year: %w", s, ErrInvalidDateFormat)
	}
	month, err := strconv.Atoi(s[5:7])
	if err != nil {
		return time.Time{}, fmt.Errorf("%q month: %w", s, ErrInvalidDateFormat)
	}
	day, err := strconv.Atoi(s[8:10])
	if err != nil {
		return time.Time{}, fmt.Errorf("%q day: %w", s, ErrInvalidDateFormat)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
