package ledger

import (
	"fmt"
	"strconv"
	"time"
)

// Period is a calendar month, written as YYYY-MM.
type Period struct {
	Year  int
	Month time.Month
}

// Years outside [MinYear, MaxYear] cannot be written as four digits.
const (
	MinYear = 1
	MaxYear = 9999
)

// ParsePeriod parses a YYYY-MM month string.
func ParsePeriod(s string) (Period, error) {
	if len(s) != 7 || s[4] != '-' || !digits(s[:4]) || !digits(s[5:]) {
		return Period{}, fmt.Errorf("invalid period %q: want YYYY-MM", s)
	}
	year, _ := strconv.Atoi(s[:4])
	if year < MinYear {
		return Period{}, fmt.Errorf("invalid period %q: bad year", s)
	}
	month, _ := strconv.Atoi(s[5:])
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid period %q: month must be 01-12", s)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// CurrentPeriod returns the month containing now.
func CurrentPeriod(now time.Time) Period {
	return Period{Year: now.Year(), Month: now.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Bounds returns the inclusive date range used to select the month's
// transactions. The upper bound is always day 31, even for shorter months;
// it is only ever compared as text against ISO dates and never parsed.
func (p Period) Bounds() (start, end string) {
	prefix := p.String()
	return prefix + "-01", prefix + "-31"
}

// Contains reports whether an ISO date falls within Bounds.
func (p Period) Contains(date string) bool {
	start, end := p.Bounds()
	return InRange(date, start, end)
}

// Prev returns the preceding month. 0001-01 is its own predecessor.
func (p Period) Prev() Period {
	if p.Month == time.January {
		if p.Year <= MinYear {
			return p
		}
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Next returns the following month. 9999-12 is its own successor.
func (p Period) Next() Period {
	if p.Month == time.December {
		if p.Year >= MaxYear {
			return p
		}
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// InRange compares YYYY-MM-DD strings inclusively. Zero-padded ISO dates
// order lexicographically the same way they order on the calendar, which
// keeps out-of-calendar bounds such as 2024-02-31 well defined.
func InRange(date, start, end string) bool {
	return date >= start && date <= end
}

// ValidBound reports whether s is shaped like YYYY-MM-DD with month 01-12
// and day 01-31. Day 31 is accepted for every month, so bounds produced by
// Period.Bounds pass.
func ValidBound(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' || !digits(s[:4]) || !digits(s[5:7]) || !digits(s[8:]) {
		return false
	}
	month, _ := strconv.Atoi(s[5:7])
	day, _ := strconv.Atoi(s[8:])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
