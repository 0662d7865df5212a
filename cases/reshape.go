package cases

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ONSdigital/dp-covid-area-stats/fetcher"
	"github.com/ONSdigital/log.go/v2/log"
)

// Column names in the coronavirus dashboard CSV download
const (
	colAreaCode = "areaCode"
	colAreaName = "areaName"
	colDate     = "date"
	colNewCases = "newCasesBySpecimenDate"
)

// scotlandPlaceholder marks suppressed or unknown values in the Scotland
// health-board export
const scotlandPlaceholder = "*"

const dateLayout = "2006-01-02"

// dateLayouts are the formats observed across the source files
var dateLayouts = []string{
	dateLayout,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// reshapeCases pivots the England/Wales download, which holds one row per
// (area, date), into a Matrix with one row per area and one column per
// date. Only rows whose area code carries the country's prefix are kept.
// Rows with no reported count are skipped; Backfill supplies their zeros.
func reshapeCases(t *fetcher.Table, country Country) (*Matrix, error) {
	prefix, ok := areaCodePrefixes[country]
	if !ok {
		return nil, NewError(
			errors.New("no area code prefix defined for country"),
			log.Data{"country": country},
		)
	}

	codeIdx, err := columnIndex(t, colAreaCode)
	if err != nil {
		return nil, err
	}
	nameIdx, err := columnIndex(t, colAreaName)
	if err != nil {
		return nil, err
	}
	dateIdx, err := columnIndex(t, colDate)
	if err != nil {
		return nil, err
	}
	valueIdx, err := columnIndex(t, colNewCases)
	if err != nil {
		return nil, err
	}

	m := NewMatrix()
	for i, row := range t.Rows {
		if !strings.HasPrefix(row[codeIdx], prefix) {
			continue
		}

		d, err := parseDate(row[dateIdx])
		if err != nil {
			return nil, NewError(
				fmt.Errorf("failed to parse date in cases dataset: %w", err),
				log.Data{"country": country, "row": i},
			)
		}

		raw := row[valueIdx]
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, NewError(
				fmt.Errorf("failed to parse case count: %w", err),
				log.Data{"country": country, "row": i, "value": raw},
			)
		}

		if err := m.SetUnique(Key{Country: country, AreaName: row[nameIdx]}, d, v); err != nil {
			return nil, err
		}
	}

	if m.Len() == 0 {
		return nil, NewError(
			errors.New("no rows matched country in cases dataset"),
			log.Data{"country": country, "prefix": prefix},
		)
	}

	m.Backfill()
	return m, nil
}

// reshapeScotlandCases flips the Scotland download, which holds one row per
// date with one column per health board and cumulative counts as values,
// into a Matrix of daily new cases per area. Placeholder cells become 0.0
// before the cumulative totals are differenced.
func reshapeScotlandCases(t *fetcher.Table) (*Matrix, error) {
	if len(t.Header) < 2 {
		return nil, NewError(
			errors.New("scotland dataset has no area columns"),
			log.Data{"header": t.Header},
		)
	}

	m := NewMatrix()
	dates := make([]time.Time, 0, len(t.Rows))

	for i, row := range t.Rows {
		// a short or long row would leave cells absent for an observed
		// date, which the differencing below would turn into spurious
		// negatives
		if len(row) != len(t.Header) {
			return nil, NewError(
				errors.New("row length does not match header in scotland dataset"),
				log.Data{"row": i, "cells": len(row), "columns": len(t.Header)},
			)
		}

		d, err := parseDate(row[0])
		if err != nil {
			return nil, NewError(
				fmt.Errorf("failed to parse date in scotland dataset: %w", err),
				log.Data{"row": i},
			)
		}
		dates = append(dates, d)

		for j := 1; j < len(row); j++ {
			v := 0.0
			if raw := row[j]; raw != scotlandPlaceholder && raw != "" {
				if v, err = strconv.ParseFloat(raw, 64); err != nil {
					return nil, NewError(
						fmt.Errorf("failed to parse cumulative count: %w", err),
						log.Data{"row": i, "area_name": t.Header[j], "value": row[j]},
					)
				}
			}
			if err := m.SetUnique(Key{Country: Scotland, AreaName: t.Header[j]}, d, v); err != nil {
				return nil, err
			}
		}
	}

	if m.Len() == 0 {
		return nil, NewError(errors.New("scotland dataset has no rows"), nil)
	}

	// The source holds cumulative totals; difference adjacent columns to
	// get new cases per day, walking newest to oldest so each subtraction
	// sees its predecessor's original value. The earliest column has no
	// predecessor and keeps its cumulative value.
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for i := len(dates) - 1; i >= 1; i-- {
		cur, prev := dates[i], dates[i-1]
		for _, row := range m.rows {
			row[cur] -= row[prev]
		}
	}

	m.Backfill()
	return m, nil
}

func columnIndex(t *fetcher.Table, name string) (int, error) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return 0, NewError(
			errors.New("column missing from dataset"),
			log.Data{"column": name, "header": t.Header},
		)
	}
	return i, nil
}
