// Package request builds validated retrieval requests for the Copernicus
// Climate Data Store (CDS) ERA5 archive.
//
// # Request Shape
//
// The CDS web API accepts a dataset identifier plus a JSON mapping whose
// calendar dimensions are lists of zero-padded strings:
//
//	year:  "1939" … current year (ERA5 coverage starts in 1939)
//	month: "01" … "12"
//	day:   "01" … "31" (month-length mismatches are ignored server-side,
//	       e.g. day "31" in a 30-day month)
//	time:  "00:00" … "23:00" (whole hours only)
//
// [Builder] assembles such a mapping field by field, starting from the stock
// ERA5 single-levels coverage so callers override only what they care about.
// Build yields a [Request] snapshot; [Request.Execute] hands the dataset and
// wire payload to a [Retriever].
//
// # Range Shorthand
//
// The range helpers expand inclusive integer bounds into the list formats
// above. Month-of-year and hour-of-day are cyclic axes: a start greater than
// the stop wraps past the axis maximum, so MonthRange(9, 4) means September
// through April and TimeRange(12, 1) means noon through 01:00. Years and
// days are linear and reject start > stop.
//
// The current-year upper bound for years is read from a package-level clock;
// tests pin it with [SetClock].
//
// # Bounding Box
//
// Geographic areas use the CDS wire order [North, West, South, East].
// Latitudes must satisfy -90 ≤ South ≤ North ≤ 90 and longitudes
// -180 ≤ West ≤ East ≤ 180; violations surface as [LatitudeError] and
// [LongitudeError] so callers can branch on the failing axis.
//
// # Validation Failures
//
// Every rejected input leaves the request untouched. All failures satisfy
// errors.Is(err, [ErrValidation]); the latitude/longitude specializations are
// additionally matched with errors.As.
package request
