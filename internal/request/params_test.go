package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeParams round-trips a request file body the way cmd/fetch does.
func decodeParams(t *testing.T, body string) map[string]any {
	t.Helper()
	var params map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &params))
	return params
}

func TestBuilder_Apply(t *testing.T) {
	pinYear(t, 2025)

	params := decodeParams(t, `{
		"dataset": "reanalysis-era5-land",
		"product_type": ["reanalysis"],
		"variables": ["2m_temperature", "total_precipitation"],
		"year_range": [2023, 2024],
		"month_range": [9, 4],
		"day_range": [1, 15],
		"time_range": [12, 1],
		"data_format": "GRIB",
		"download_format": "zip",
		"area": [60, -10, 35, 30]
	}`)

	req, err := NewBuilder().Apply(params).Build()
	require.NoError(t, err)

	assert.Equal(t, "reanalysis-era5-land", req.Dataset)
	assert.Equal(t, ParameterList{"reanalysis"}, req.ProductType)
	assert.Equal(t, ParameterList{"2m_temperature", "total_precipitation"}, req.Variables)
	assert.Equal(t, ParameterList{"2023", "2024"}, req.Year)
	assert.Equal(t, ParameterList{"09", "10", "11", "12", "01", "02", "03", "04"}, req.Month)
	assert.Len(t, req.Day, 15)
	assert.Len(t, req.Time, 14)
	assert.Equal(t, "grib", req.DataFormat)
	assert.Equal(t, "zip", req.DownloadFormat)
	assert.Equal(t, BoundingBox{North: 60, West: -10, South: 35, East: 30}, req.Area)
}

func TestBuilder_Apply_ExplicitLists(t *testing.T) {
	params := decodeParams(t, `{
		"year": ["2020", "2022"],
		"month": ["01"],
		"day": ["15"],
		"time": ["06:00", "18:00"]
	}`)

	req, err := NewBuilder().Apply(params).Build()
	require.NoError(t, err)
	assert.Equal(t, ParameterList{"2020", "2022"}, req.Year)
	assert.Equal(t, ParameterList{"01"}, req.Month)
	assert.Equal(t, ParameterList{"15"}, req.Day)
	assert.Equal(t, ParameterList{"06:00", "18:00"}, req.Time)
}

func TestBuilder_Apply_TypeValidation(t *testing.T) {
	t.Run("non-string list element", func(t *testing.T) {
		var vErr *ValidationError
		params := decodeParams(t, `{"product_type": ["reanalysis", 5]}`)
		_, err := NewBuilder().Apply(params).Build()
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "product_type", vErr.Field)
		assert.Contains(t, vErr.Reason, "list of strings")
	})

	t.Run("list where string expected", func(t *testing.T) {
		var vErr *ValidationError
		params := decodeParams(t, `{"dataset": ["reanalysis-era5-land"]}`)
		_, err := NewBuilder().Apply(params).Build()
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "dataset", vErr.Field)
	})

	t.Run("non-numeric area element", func(t *testing.T) {
		var vErr *ValidationError
		params := decodeParams(t, `{"area": [40, "60", 0, 100]}`)
		_, err := NewBuilder().Apply(params).Build()
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "area", vErr.Field)
		assert.Contains(t, vErr.Reason, "list of numbers")
	})

	t.Run("fractional range bound", func(t *testing.T) {
		params := decodeParams(t, `{"month_range": [1.5, 4]}`)
		_, err := NewBuilder().Apply(params).Build()
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "pair of integers")
	})

	t.Run("range without stop", func(t *testing.T) {
		params := decodeParams(t, `{"time_range": [6]}`)
		_, err := NewBuilder().Apply(params).Build()
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "[start, stop]")
	})
}

func TestBuilder_Apply_UnknownKey(t *testing.T) {
	var vErr *ValidationError
	params := decodeParams(t, `{"variable": ["2m_temperature"]}`)
	_, err := NewBuilder().Apply(params).Build()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "variable", vErr.Field)
	assert.Contains(t, vErr.Reason, "unknown parameter")
}

func TestBuilder_Apply_RangeValidationPropagates(t *testing.T) {
	params := decodeParams(t, `{"day_range": [20, 10]}`)
	_, err := NewBuilder().Apply(params).Build()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "start day (20)")
}

func TestBuilder_Apply_AfterFailureIsNoop(t *testing.T) {
	b := NewBuilder().DataFormat("csv")
	b.Apply(map[string]any{"dataset": "reanalysis-era5-land"})

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data_format")
	assert.Equal(t, Default().Dataset, b.req.Dataset)
}

func TestBuilder_Apply_EmptyListAccepted(t *testing.T) {
	params := decodeParams(t, `{"variables": []}`)
	req, err := NewBuilder().Apply(params).Build()
	require.NoError(t, err)
	assert.Empty(t, req.Variables)
}
