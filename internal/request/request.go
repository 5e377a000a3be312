package request

import "context"

// ParameterList is an ordered list of string-encoded request parameters,
// e.g. ["reanalysis"] or ["01", "02", "03"]. Empty lists are syntactically
// valid; the archive rejects them itself.
type ParameterList []string

// BoundingBox is a rectangular geographic area. The CDS wire order is
// [North, West, South, East].
type BoundingBox struct {
	North float64
	South float64
	West  float64
	East  float64
}

// List returns the box in the wire order [North, West, South, East].
func (b BoundingBox) List() []float64 {
	return []float64{b.North, b.West, b.South, b.East}
}

// NewBoundingBox validates values as a [North, West, South, East] quadruple.
// Latitudes must satisfy -90 <= South <= North <= 90 and longitudes
// -180 <= West <= East <= 180.
func NewBoundingBox(values []float64) (BoundingBox, error) {
	if len(values) != 4 {
		return BoundingBox{}, &ValidationError{
			Field:  "area",
			Reason: "must have exactly 4 values: [North, West, South, East]",
		}
	}
	n, w, s, e := values[0], values[1], values[2], values[3]
	if !(-90 <= s && s <= n && n <= 90) {
		return BoundingBox{}, &LatitudeError{North: n, South: s}
	}
	if !(-180 <= w && w <= e && e <= 180) {
		return BoundingBox{}, &LongitudeError{West: w, East: e}
	}
	return BoundingBox{North: n, South: s, West: w, East: e}, nil
}

// Output format identifiers accepted by the archive.
const (
	FormatNetCDF = "netcdf"
	FormatGRIB   = "grib"

	DownloadUnarchived = "unarchived"
	DownloadZip        = "zip"
)

// Request describes one complete, ready-to-submit retrieval from the archive.
// Callers obtain one from Builder.Build and must treat it as a finished
// snapshot.
type Request struct {
	Dataset        string
	ProductType    ParameterList
	Variables      ParameterList
	Year           ParameterList
	Month          ParameterList
	Day            ParameterList
	Time           ParameterList
	DataFormat     string
	DownloadFormat string
	Area           BoundingBox
}

// Default returns a request preloaded with the stock ERA5 single-levels
// coverage: the five surface variables over the current year's full
// month/day/hour grid, as netcdf, within [40, 60, 0, 100].
func Default() Request {
	return Request{
		Dataset:     "reanalysis-era5-single-levels",
		ProductType: ParameterList{"reanalysis"},
		Variables: ParameterList{
			"10m_u_component_of_wind",
			"10m_v_component_of_wind",
			"2m_dewpoint_temperature",
			"2m_temperature",
			"total_precipitation",
		},
		Year:           FormatYears([]int{CurrentYear()}),
		Month:          FormatMonths(span(FirstMonth, LastMonth)),
		Day:            FormatDays(span(FirstDay, LastDay)),
		Time:           FormatHours(span(FirstHour, LastHour)),
		DataFormat:     FormatNetCDF,
		DownloadFormat: DownloadUnarchived,
		Area:           BoundingBox{North: 40, West: 60, South: 0, East: 100},
	}
}

// Payload assembles the fixed-shape wire mapping the archive expects.
// The Variables field maps to the singular "variable" key.
func (r Request) Payload() map[string]any {
	return map[string]any{
		"product_type":    r.ProductType,
		"variable":        r.Variables,
		"year":            r.Year,
		"month":           r.Month,
		"day":             r.Day,
		"time":            r.Time,
		"data_format":     r.DataFormat,
		"download_format": r.DownloadFormat,
		"area":            r.Area.List(),
	}
}

// Retriever submits a request payload to the archive and downloads the
// produced artifact, returning its local path. Implementations own all
// network concerns: authentication, rate limits, retries.
type Retriever interface {
	Retrieve(ctx context.Context, dataset string, payload map[string]any) (string, error)
}

// Execute hands the request to the retrieval client and returns the path of
// the downloaded artifact.
func (r Request) Execute(ctx context.Context, client Retriever) (string, error) {
	return client.Retrieve(ctx, r.Dataset, r.Payload())
}
