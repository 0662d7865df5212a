// Package cases builds daily COVID-19 case-count matrices for England,
// Wales and Scotland from their published CSV downloads, and caches the
// reshaped national datasets in memory.
package cases

import (
	"sort"
	"time"

	"github.com/ONSdigital/log.go/v2/log"
)

// Country identifies one of the nations covered by the datasets
type Country string

const (
	England  Country = "England"
	Wales    Country = "Wales"
	Scotland Country = "Scotland"
)

// areaCodePrefixes maps the countries sharing the UK cases download to the
// leading character of their ONS area codes. The prefix is the only marker
// distinguishing English and Welsh rows in that file.
var areaCodePrefixes = map[Country]string{
	England: "E",
	Wales:   "W",
}

// AreaType selects the local-authority granularity of the England/Wales
// cases download
type AreaType string

const (
	// AreaTypeUpperTier requests upper-tier local authority areas
	AreaTypeUpperTier AreaType = "utla"
	// AreaTypeLowerTier requests lower-tier local authority areas
	AreaTypeLowerTier AreaType = "ltla"
)

// IsValid reports whether the area type is one the UK cases endpoint accepts
func (a AreaType) IsValid() bool {
	return a == AreaTypeUpperTier || a == AreaTypeLowerTier
}

// Key identifies a row of a Matrix
type Key struct {
	Country  Country
	AreaName string
}

// Matrix is a table of daily new-case counts with one row per
// (Country, Area name) pair and one column per calendar date.
// Dates are normalised to midnight UTC.
type Matrix struct {
	keys  []Key
	rows  map[Key]map[time.Time]float64
	dates map[time.Time]struct{}
}

// NewMatrix returns an empty Matrix
func NewMatrix() *Matrix {
	return &Matrix{
		rows:  map[Key]map[time.Time]float64{},
		dates: map[time.Time]struct{}{},
	}
}

// day normalises a timestamp to its calendar date at midnight UTC so that
// dates parsed from different layouts compare equal as map keys
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Set stores a cell value, creating the row and date column as needed.
// An existing cell value is overwritten.
func (m *Matrix) Set(k Key, date time.Time, value float64) {
	d := day(date)
	row, ok := m.rows[k]
	if !ok {
		row = map[time.Time]float64{}
		m.rows[k] = row
		m.keys = append(m.keys, k)
	}
	row[d] = value
	m.dates[d] = struct{}{}
}

// SetUnique stores a cell value like Set, but fails if the cell already
// holds one. Reshapers use it to surface duplicate (area, date) source rows
// instead of silently keeping one of the values.
func (m *Matrix) SetUnique(k Key, date time.Time, value float64) error {
	d := day(date)
	if row, ok := m.rows[k]; ok {
		if _, exists := row[d]; exists {
			return NewError(
				errDuplicateCell,
				log.Data{
					"country":   k.Country,
					"area_name": k.AreaName,
					"date":      d.Format(dateLayout),
				},
			)
		}
	}
	m.Set(k, d, value)
	return nil
}

// Value returns the cell for the given row key and date, and whether it is
// present
func (m *Matrix) Value(k Key, date time.Time) (float64, bool) {
	row, ok := m.rows[k]
	if !ok {
		return 0, false
	}
	v, ok := row[day(date)]
	return v, ok
}

// Len returns the number of rows
func (m *Matrix) Len() int {
	return len(m.keys)
}

// Keys returns the row keys in their insertion order
func (m *Matrix) Keys() []Key {
	keys := make([]Key, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Dates returns the date columns in ascending order
func (m *Matrix) Dates() []time.Time {
	dates := make([]time.Time, 0, len(m.dates))
	for d := range m.dates {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Backfill makes the matrix date-complete: every calendar day between the
// earliest and latest date column is inserted as a column, and every absent
// cell is set to 0.0. Running it on an already complete matrix is a no-op.
func (m *Matrix) Backfill() {
	if len(m.dates) == 0 || len(m.keys) == 0 {
		return
	}

	dates := m.Dates()
	min, max := dates[0], dates[len(dates)-1]
	for d := min; !d.After(max); d = d.AddDate(0, 0, 1) {
		m.dates[d] = struct{}{}
	}

	for _, k := range m.keys {
		row := m.rows[k]
		for d := range m.dates {
			if _, ok := row[d]; !ok {
				row[d] = 0.0
			}
		}
	}
}

// Concat joins matrices row-wise into a single matrix. Row keys must be
// unique across all inputs. The result's columns are the union of the
// inputs' date columns, with cells the inputs did not cover set to 0.0;
// calendar days missing from every input are not inserted.
func Concat(matrices ...*Matrix) (*Matrix, error) {
	out := NewMatrix()

	for _, m := range matrices {
		for d := range m.dates {
			out.dates[d] = struct{}{}
		}
		for _, k := range m.keys {
			if _, exists := out.rows[k]; exists {
				return nil, NewError(
					errDuplicateRow,
					log.Data{
						"country":   k.Country,
						"area_name": k.AreaName,
					},
				)
			}
			row := make(map[time.Time]float64, len(m.rows[k]))
			for d, v := range m.rows[k] {
				row[d] = v
			}
			out.rows[k] = row
			out.keys = append(out.keys, k)
		}
	}

	for _, k := range out.keys {
		row := out.rows[k]
		for d := range out.dates {
			if _, ok := row[d]; !ok {
				row[d] = 0.0
			}
		}
	}

	return out, nil
}
