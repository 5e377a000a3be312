package request

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_FluentChain(t *testing.T) {
	pinYear(t, 2025)

	req, err := NewBuilder().
		Dataset("reanalysis-era5-single-levels").
		ProductType("reanalysis").
		Variables("2m_temperature", "total_precipitation").
		Year("2024").
		MonthRange(1, 8).
		DayRange(1, 31).
		Area(40, 60, 0, 100).
		TimeRange(0, 12).
		DataFormat("netcdf").
		DownloadFormat("unarchived").
		Build()

	require.NoError(t, err)
	assert.Equal(t, "reanalysis-era5-single-levels", req.Dataset)
	assert.Equal(t, ParameterList{"reanalysis"}, req.ProductType)
	assert.Equal(t, ParameterList{"2m_temperature", "total_precipitation"}, req.Variables)
	assert.Equal(t, ParameterList{"2024"}, req.Year)
	assert.Equal(t, ParameterList{"01", "02", "03", "04", "05", "06", "07", "08"}, req.Month)
	assert.Len(t, req.Day, 31)
	assert.Len(t, req.Time, 13)
	assert.Equal(t, BoundingBox{North: 40, West: 60, South: 0, East: 100}, req.Area)
	assert.Equal(t, "netcdf", req.DataFormat)
	assert.Equal(t, "unarchived", req.DownloadFormat)
}

func TestBuilder_Defaults(t *testing.T) {
	pinYear(t, 2025)

	req, err := NewBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, Default(), req)
	assert.Equal(t, ParameterList{"2025"}, req.Year)
	assert.Len(t, req.Month, 12)
	assert.Len(t, req.Day, 31)
	assert.Len(t, req.Time, 24)
}

func TestBuilder_SettersOverwrite(t *testing.T) {
	req, err := NewBuilder().
		Month("01", "02").
		Month("07").
		Build()

	require.NoError(t, err)
	assert.Equal(t, ParameterList{"07"}, req.Month)
}

func TestBuilder_BuildSnapshots(t *testing.T) {
	b := NewBuilder().Dataset("reanalysis-era5-land")

	first, err := b.Build()
	require.NoError(t, err)

	second, err := b.Year("2020").Build()
	require.NoError(t, err)

	// Only the changed field differs between the two snapshots.
	assert.NotEqual(t, first.Year, second.Year)
	second.Year = first.Year
	assert.Equal(t, first, second)
}

func TestBuilder_DataFormat(t *testing.T) {
	t.Run("normalizes whitespace and case", func(t *testing.T) {
		req, err := NewBuilder().DataFormat(" NetCDF ").Build()
		require.NoError(t, err)
		assert.Equal(t, "netcdf", req.DataFormat)
	})

	t.Run("accepts grib", func(t *testing.T) {
		req, err := NewBuilder().DataFormat("grib").Build()
		require.NoError(t, err)
		assert.Equal(t, "grib", req.DataFormat)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := NewBuilder().DataFormat("csv").Build()
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), `"csv"`)
		assert.Contains(t, err.Error(), "'netcdf', 'grib'")
	})
}

func TestBuilder_DownloadFormat(t *testing.T) {
	t.Run("normalizes", func(t *testing.T) {
		req, err := NewBuilder().DownloadFormat(" ZIP ").Build()
		require.NoError(t, err)
		assert.Equal(t, "zip", req.DownloadFormat)
	})

	t.Run("rejects unknown packaging", func(t *testing.T) {
		_, err := NewBuilder().DownloadFormat("tar").Build()
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "'unarchived', 'zip'")
	})
}

func TestBuilder_Area(t *testing.T) {
	t.Run("valid box", func(t *testing.T) {
		req, err := NewBuilder().Area(40, 60, 0, 100).Build()
		require.NoError(t, err)
		assert.Equal(t, BoundingBox{North: 40, West: 60, South: 0, East: 100}, req.Area)
	})

	t.Run("global box at the poles", func(t *testing.T) {
		req, err := NewBuilder().Area(90, -180, -90, 180).Build()
		require.NoError(t, err)
		assert.Equal(t, []float64{90, -180, -90, 180}, req.Area.List())
	})

	t.Run("north below south", func(t *testing.T) {
		var latErr *LatitudeError
		_, err := NewBuilder().Area(0, 60, 40, 100).Build()
		require.ErrorAs(t, err, &latErr)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 0.0, latErr.North)
		assert.Equal(t, 40.0, latErr.South)
	})

	t.Run("latitude out of bounds", func(t *testing.T) {
		var latErr *LatitudeError
		_, err := NewBuilder().Area(95, 60, 0, 100).Build()
		require.ErrorAs(t, err, &latErr)
	})

	t.Run("east below west", func(t *testing.T) {
		var lonErr *LongitudeError
		_, err := NewBuilder().Area(40, 100, 0, 60).Build()
		require.ErrorAs(t, err, &lonErr)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 100.0, lonErr.West)
		assert.Equal(t, 60.0, lonErr.East)
	})

	t.Run("wrong length", func(t *testing.T) {
		var vErr *ValidationError
		_, err := NewBuilder().Area(40, 60, 0).Build()
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "area", vErr.Field)
		assert.Contains(t, vErr.Reason, "exactly 4 values")
	})

	t.Run("failure leaves prior area intact", func(t *testing.T) {
		b := NewBuilder().Area(10, 10, -10, 20)
		b.Area(0, 60, 40, 100) // invalid, rejected before mutation
		assert.Equal(t, BoundingBox{North: 10, West: 10, South: -10, East: 20}, b.req.Area)
	})
}

func TestBuilder_RangeSetters(t *testing.T) {
	pinYear(t, 2025)

	t.Run("year range", func(t *testing.T) {
		req, err := NewBuilder().YearRange(2020, 2022).Build()
		require.NoError(t, err)
		assert.Equal(t, ParameterList{"2020", "2021", "2022"}, req.Year)
	})

	t.Run("years since", func(t *testing.T) {
		req, err := NewBuilder().YearsSince(2023).Build()
		require.NoError(t, err)
		assert.Equal(t, ParameterList{"2023", "2024", "2025"}, req.Year)
	})

	t.Run("wrapping month range", func(t *testing.T) {
		req, err := NewBuilder().MonthRange(11, 2).Build()
		require.NoError(t, err)
		assert.Equal(t, ParameterList{"11", "12", "01", "02"}, req.Month)
	})

	t.Run("wrapping time range", func(t *testing.T) {
		req, err := NewBuilder().TimeRange(22, 3).Build()
		require.NoError(t, err)
		assert.Equal(t, ParameterList{"22:00", "23:00", "00:00", "01:00", "02:00", "03:00"}, req.Time)
	})

	t.Run("formatter failure propagates", func(t *testing.T) {
		_, err := NewBuilder().DayRange(20, 10).Build()
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "start day (20)")
	})
}

func TestBuilder_StickyError(t *testing.T) {
	b := NewBuilder().
		DataFormat("csv"). // fails here
		Dataset("reanalysis-era5-land").
		MonthRange(1, 3)

	require.Error(t, b.Err())

	_, err := b.Build()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "data_format")

	// Setters after the failure were no-ops.
	assert.Equal(t, Default().Dataset, b.req.Dataset)
	assert.Equal(t, len(Default().Month), len(b.req.Month))
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	_, err := NewBuilder().
		DayRange(20, 10).
		DataFormat("csv").
		Build()

	require.Error(t, err)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "day", vErr.Field)
}
