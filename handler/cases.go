package handler

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ONSdigital/dp-covid-area-stats/cases"
	"github.com/ONSdigital/log.go/v2/log"
)

// UKCases handles requests for the unified UK case-count dataset
type UKCases struct {
	provider CasesProvider
}

// NewUKCases creates a new UKCases handler
func NewUKCases(p CasesProvider) *UKCases {
	return &UKCases{
		provider: p,
	}
}

// Get serves the unified dataset as CSV: a Country and Area name column
// followed by one column per date. Query parameters: area_type (utla or
// ltla) and force_load (bool).
func (h *UKCases) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	opts := cases.Options{}

	if v := req.URL.Query().Get("area_type"); v != "" {
		areaType := cases.AreaType(v)
		if !areaType.IsValid() {
			log.Info(ctx, "rejecting request with invalid area_type", log.Data{"area_type": v})
			http.Error(w, "invalid area_type: must be utla or ltla", http.StatusBadRequest)
			return
		}
		opts.EnglandAreaType = areaType
	}

	if v := req.URL.Query().Get("force_load"); v != "" {
		force, err := strconv.ParseBool(v)
		if err != nil {
			log.Info(ctx, "rejecting request with invalid force_load", log.Data{"force_load": v})
			http.Error(w, "invalid force_load: must be a boolean", http.StatusBadRequest)
			return
		}
		opts.ForceLoad = force
	}

	m, err := h.provider.CasesData(ctx, opts)
	if err != nil {
		log.Error(ctx, "failed to get cases data", err, logData(err))
		http.Error(w, "failed to get cases data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	if err := writeCSV(w, m); err != nil {
		// the response is already partially written; all we can do is log
		log.Error(ctx, "failed to write cases data response", err)
	}
}

func writeCSV(w io.Writer, m *cases.Matrix) error {
	cw := csv.NewWriter(w)
	dates := m.Dates()

	header := make([]string, 0, len(dates)+2)
	header = append(header, "Country", "Area name")
	for _, d := range dates {
		header = append(header, d.Format("2006-01-02"))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, k := range m.Keys() {
		record := make([]string, 0, len(header))
		record = append(record, string(k.Country), k.AreaName)
		for _, d := range dates {
			v, _ := m.Value(k, d)
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type dataLogger interface {
	LogData() map[string]interface{}
}

// logData recovers any log.Data embedded in the error chain
func logData(err error) log.Data {
	var dl dataLogger
	if errors.As(err, &dl) {
		return log.Data(dl.LogData())
	}
	return nil
}
