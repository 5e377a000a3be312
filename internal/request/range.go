package request

import "fmt"

// Calendar bounds of the archive.
const (
	// EarliestYear is the first year with ERA5 coverage in the CDS.
	EarliestYear = 1939

	FirstMonth = 1
	LastMonth  = 12

	FirstDay = 1
	LastDay  = 31 // 30 vs 31 is resolved by the archive per month

	FirstHour = 0  // "00:00"
	LastHour  = 23 // "23:00"
)

// FormatYears renders years as decimal strings, e.g. 2024 -> "2024".
func FormatYears(years []int) []string {
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = fmt.Sprintf("%d", y)
	}
	return out
}

// FormatMonths renders months in the two-digit "MM" form, e.g. 4 -> "04".
func FormatMonths(months []int) []string {
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = fmt.Sprintf("%02d", m)
	}
	return out
}

// FormatDays renders days in the two-digit "DD" form, e.g. 9 -> "09".
func FormatDays(days []int) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = fmt.Sprintf("%02d", d)
	}
	return out
}

// FormatHours renders whole hours in the "HH:00" form, e.g. 7 -> "07:00".
func FormatHours(hours []int) []string {
	out := make([]string, len(hours))
	for i, h := range hours {
		out[i] = fmt.Sprintf("%02d:00", h)
	}
	return out
}

// YearRange expands an inclusive year range into decimal strings. Years are a
// linear axis: start must not exceed stop, and both bounds must fall between
// EarliestYear and the current year.
func YearRange(start, stop int) ([]string, error) {
	if start > stop {
		return nil, &ValidationError{
			Field:  "year",
			Reason: fmt.Sprintf("start year (%d) can't be greater than stop year (%d)", start, stop),
		}
	}
	if start < 0 || stop < 0 {
		return nil, &ValidationError{Field: "year", Reason: "years can't be negative"}
	}
	current := CurrentYear()
	if start < EarliestYear || stop > current {
		return nil, &ValidationError{
			Field:  "year",
			Reason: fmt.Sprintf("years must be between %d and %d", EarliestYear, current),
		}
	}
	return FormatYears(span(start, stop)), nil
}

// MonthRange expands an inclusive month range into "MM" strings. Months are
// cyclic: MonthRange(9, 4) yields September through April.
func MonthRange(start, stop int) ([]string, error) {
	if start <= 0 || stop <= 0 {
		return nil, &ValidationError{Field: "month", Reason: "months can't be negative or zero"}
	}
	if start > LastMonth || stop > LastMonth {
		return nil, &ValidationError{
			Field:  "month",
			Reason: fmt.Sprintf("months must be between %d and %d", FirstMonth, LastMonth),
		}
	}
	return FormatMonths(cyclicSpan(start, stop, FirstMonth, LastMonth)), nil
}

// DayRange expands an inclusive day range into "DD" strings. Days are a
// linear axis within 1-31; month-length validity is left to the archive.
func DayRange(start, stop int) ([]string, error) {
	if start > stop {
		return nil, &ValidationError{
			Field:  "day",
			Reason: fmt.Sprintf("start day (%d) can't be greater than stop day (%d)", start, stop),
		}
	}
	if start <= 0 || stop <= 0 {
		return nil, &ValidationError{Field: "day", Reason: "days can't be negative or zero"}
	}
	if start > LastDay || stop > LastDay {
		return nil, &ValidationError{
			Field:  "day",
			Reason: fmt.Sprintf("days must be between %d and %d", FirstDay, LastDay),
		}
	}
	return FormatDays(span(start, stop)), nil
}

// TimeRange expands an inclusive hour range into "HH:00" strings. Hours are
// cyclic: TimeRange(12, 1) yields 12:00 through 01:00.
func TimeRange(start, stop int) ([]string, error) {
	if start < 0 || stop < 0 {
		return nil, &ValidationError{Field: "time", Reason: "hours can't be negative"}
	}
	if start > LastHour || stop > LastHour {
		return nil, &ValidationError{
			Field:  "time",
			Reason: fmt.Sprintf("hours must be between %d and %d", FirstHour, LastHour),
		}
	}
	return FormatHours(cyclicSpan(start, stop, FirstHour, LastHour)), nil
}

// span returns the inclusive linear range [from..to].
func span(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

// cyclicSpan returns the inclusive range from start to stop along a cyclic
// axis bounded by [first, last]. When start > stop the range wraps past the
// axis maximum: [start..last] followed by [first..stop].
func cyclicSpan(start, stop, first, last int) []int {
	if start <= stop {
		return span(start, stop)
	}
	return append(span(start, last), span(first, stop)...)
}
