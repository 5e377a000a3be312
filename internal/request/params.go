package request

import (
	"math"
	"slices"
)

// paramOrder fixes the order in which Apply consumes parameters so the first
// reported failure is deterministic regardless of map iteration.
var paramOrder = []string{
	"dataset",
	"product_type",
	"variables",
	"year",
	"year_range",
	"month",
	"month_range",
	"day",
	"day_range",
	"time",
	"time_range",
	"data_format",
	"download_format",
	"area",
}

// Apply feeds loosely typed parameters, as decoded from a JSON request file,
// through the corresponding setters. List fields must contain only strings
// and area only numbers; a wrong element type is rejected with a
// ValidationError naming the field. The "*_range" keys take a [start, stop]
// integer pair and expand through the range helpers. Unknown keys are
// rejected.
func (b *Builder) Apply(params map[string]any) *Builder {
	if b.err != nil {
		return b
	}
	for key := range params {
		if !slices.Contains(paramOrder, key) {
			return b.fail(&ValidationError{Field: key, Reason: "unknown parameter"})
		}
	}
	for _, key := range paramOrder {
		value, ok := params[key]
		if !ok {
			continue
		}
		b.applyParam(key, value)
		if b.err != nil {
			return b
		}
	}
	return b
}

func (b *Builder) applyParam(key string, value any) {
	switch key {
	case "dataset", "data_format", "download_format":
		s, err := toString(value, key)
		if err != nil {
			b.fail(err)
			return
		}
		switch key {
		case "dataset":
			b.Dataset(s)
		case "data_format":
			b.DataFormat(s)
		case "download_format":
			b.DownloadFormat(s)
		}
	case "product_type", "variables", "year", "month", "day", "time":
		list, err := toStringList(value, key)
		if err != nil {
			b.fail(err)
			return
		}
		switch key {
		case "product_type":
			b.ProductType(list...)
		case "variables":
			b.Variables(list...)
		case "year":
			b.Year(list...)
		case "month":
			b.Month(list...)
		case "day":
			b.Day(list...)
		case "time":
			b.Time(list...)
		}
	case "year_range", "month_range", "day_range", "time_range":
		start, stop, err := toIntPair(value, key)
		if err != nil {
			b.fail(err)
			return
		}
		switch key {
		case "year_range":
			b.YearRange(start, stop)
		case "month_range":
			b.MonthRange(start, stop)
		case "day_range":
			b.DayRange(start, stop)
		case "time_range":
			b.TimeRange(start, stop)
		}
	case "area":
		list, err := toFloatList(value, key)
		if err != nil {
			b.fail(err)
			return
		}
		b.Area(list...)
	}
}

func toString(value any, field string) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", &ValidationError{Field: field, Reason: "must be a string"}
	}
	return s, nil
}

func toStringList(value any, field string) ([]string, error) {
	switch list := value.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &ValidationError{Field: field, Reason: "must be a list of strings"}
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, &ValidationError{Field: field, Reason: "must be a list of strings"}
	}
}

func toFloatList(value any, field string) ([]float64, error) {
	switch list := value.(type) {
	case []float64:
		return list, nil
	case []any:
		out := make([]float64, len(list))
		for i, item := range list {
			f, ok := toFloat(item)
			if !ok {
				return nil, &ValidationError{Field: field, Reason: "must be a list of numbers"}
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, &ValidationError{Field: field, Reason: "must be a list of numbers"}
	}
}

func toIntPair(value any, field string) (int, int, error) {
	list, ok := value.([]any)
	if !ok || len(list) != 2 {
		return 0, 0, &ValidationError{Field: field, Reason: "must be a [start, stop] pair"}
	}
	start, okStart := toInt(list[0])
	stop, okStop := toInt(list[1])
	if !okStart || !okStop {
		return 0, 0, &ValidationError{Field: field, Reason: "must be a pair of integers"}
	}
	return start, stop, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(value any) (int, bool) {
	f, ok := toFloat(value)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
