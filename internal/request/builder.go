package request

import (
	"fmt"
	"strings"
)

// Builder assembles a Request field by field, starting from Default.
// Every setter validates its input before mutating the underlying request
// and returns the builder for chaining. A failed setter records its error,
// leaves the request in its prior state, and turns later setters into
// no-ops; Build reports the first failure.
type Builder struct {
	req Request
	err error
}

// NewBuilder creates a builder over a defaulted request.
func NewBuilder() *Builder {
	return &Builder{req: Default()}
}

// Dataset sets the dataset identifier. The value is free-form; dataset names
// are validated by the archive.
func (b *Builder) Dataset(name string) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Dataset = name
	return b
}

// ProductType sets the product types, e.g. "reanalysis".
func (b *Builder) ProductType(values ...string) *Builder {
	return b.setList(&b.req.ProductType, values)
}

// Variables sets the meteorological variables to retrieve.
func (b *Builder) Variables(values ...string) *Builder {
	return b.setList(&b.req.Variables, values)
}

// Year sets the target years as decimal strings, e.g. "2024".
// Use YearRange for contiguous spans.
func (b *Builder) Year(values ...string) *Builder {
	return b.setList(&b.req.Year, values)
}

// Month sets the target months in "MM" form. Use MonthRange for spans.
func (b *Builder) Month(values ...string) *Builder {
	return b.setList(&b.req.Month, values)
}

// Day sets the target days in "DD" form. Use DayRange for spans.
func (b *Builder) Day(values ...string) *Builder {
	return b.setList(&b.req.Day, values)
}

// Time sets the target hours in "HH:MM" form, e.g. "12:00".
// Use TimeRange for spans.
func (b *Builder) Time(values ...string) *Builder {
	return b.setList(&b.req.Time, values)
}

// YearRange sets the years to the inclusive range [start..stop].
func (b *Builder) YearRange(start, stop int) *Builder {
	return b.setRange(&b.req.Year, YearRange, start, stop)
}

// YearsSince sets the years to the inclusive range from start through the
// current year.
func (b *Builder) YearsSince(start int) *Builder {
	if b.err != nil {
		return b
	}
	return b.YearRange(start, CurrentYear())
}

// MonthRange sets the months to the inclusive, possibly wrapping range
// [start..stop]: MonthRange(9, 4) selects September through April.
func (b *Builder) MonthRange(start, stop int) *Builder {
	return b.setRange(&b.req.Month, MonthRange, start, stop)
}

// DayRange sets the days to the inclusive range [start..stop].
func (b *Builder) DayRange(start, stop int) *Builder {
	return b.setRange(&b.req.Day, DayRange, start, stop)
}

// TimeRange sets the hours to the inclusive, possibly wrapping range
// [start..stop]: TimeRange(12, 1) selects 12:00 through 01:00.
func (b *Builder) TimeRange(start, stop int) *Builder {
	return b.setRange(&b.req.Time, TimeRange, start, stop)
}

// DataFormat sets the output file format, one of "netcdf" or "grib".
// The value is trimmed and lower-cased before validation.
func (b *Builder) DataFormat(value string) *Builder {
	return b.setEnum(&b.req.DataFormat, "data_format", value, FormatNetCDF, FormatGRIB)
}

// DownloadFormat sets the archive packaging, one of "unarchived" or "zip".
// The value is trimmed and lower-cased before validation.
func (b *Builder) DownloadFormat(value string) *Builder {
	return b.setEnum(&b.req.DownloadFormat, "download_format", value, DownloadUnarchived, DownloadZip)
}

// Area sets the geographic bounding box as [North, West, South, East].
func (b *Builder) Area(values ...float64) *Builder {
	if b.err != nil {
		return b
	}
	box, err := NewBoundingBox(values)
	if err != nil {
		return b.fail(err)
	}
	b.req.Area = box
	return b
}

// Err returns the first validation failure recorded so far, if any.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the assembled request, or the first validation failure
// recorded by a setter. The request is returned by value: later builder
// calls never mutate an already-built snapshot.
func (b *Builder) Build() (Request, error) {
	if b.err != nil {
		return Request{}, b.err
	}
	return b.req, nil
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) setList(dst *ParameterList, values []string) *Builder {
	if b.err != nil {
		return b
	}
	*dst = ParameterList(values)
	return b
}

func (b *Builder) setRange(dst *ParameterList, expand func(int, int) ([]string, error), start, stop int) *Builder {
	if b.err != nil {
		return b
	}
	values, err := expand(start, stop)
	if err != nil {
		return b.fail(err)
	}
	*dst = values
	return b
}

func (b *Builder) setEnum(dst *string, field, value string, allowed ...string) *Builder {
	if b.err != nil {
		return b
	}
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			*dst = value
			return b
		}
	}
	return b.fail(&ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("invalid value %q, must be one of '%s'", value, strings.Join(allowed, "', '")),
	})
}
