package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jellydator/ttlcache/v3"

	"rent-dashboard/charts"
	"rent-dashboard/models"
	"rent-dashboard/services"
	"rent-dashboard/storage"
)

// Chart names served under /charts/.
const (
	ChartMeanRent  = "mean-rent"
	ChartMeanTotal = "mean-total"
	ChartScatter   = "scatter"
	ChartHistogram = "histogram"
)

// Charts lists every chart name in dashboard order.
var Charts = []string{ChartMeanRent, ChartMeanTotal, ChartScatter, ChartHistogram}

// ErrUnknownChart is returned by BuildChart for names outside Charts.
var ErrUnknownChart = errors.New("unknown chart")

// chartFiltered reports, per chart, whether it depends on filter criteria.
var chartFiltered = map[string]bool{
	ChartMeanRent:  false,
	ChartMeanTotal: false,
	ChartScatter:   true,
	ChartHistogram: true,
}

// BuildChart assembles the named chart. The mean charts always cover the
// whole dataset; scatter and histogram cover the listings matching c.
func BuildChart(dash *services.Dashboard, name string, c models.FilterCriteria, size charts.Size) (charts.Renderable, error) {
	switch name {
	case ChartMeanRent:
		return charts.MeanBar("Distribuição de Preços Médios de Aluguel", services.FieldRent.Label(),
			dash.Aggregate(services.FieldRent), size)
	case ChartMeanTotal:
		return charts.MeanBar("Análise de Preços Totais (incluindo taxas)", services.FieldTotal.Label(),
			dash.Aggregate(services.FieldTotal), size)
	case ChartScatter:
		return charts.Scatter(services.ScatterByCity(services.Filter(dash.Dataset(), c)), size)
	case ChartHistogram:
		return charts.RentHistogram(services.Histogram(services.Filter(dash.Dataset(), c), dash.Bins()), size)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownChart, name)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// criteria parses the request query, answering 400 itself on failure.
func criteria(w http.ResponseWriter, r *http.Request) (models.FilterCriteria, bool) {
	c, err := services.ParseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return c, false
	}
	return c, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "listings": s.dash.Dataset().Len()})
}

func (s *Server) handleBounds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Bounds())
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	field, err := services.ParseField(mux.Vars(r)["field"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Aggregate(field))
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, services.Filter(s.dash.Dataset(), c))
}

func (s *Server) handleListingsCSV(w http.ResponseWriter, r *http.Request) {
	c, ok := criteria(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="listings.csv"`)
	cw, err := storage.NewCSVWriter(w)
	if err != nil {
		s.logger.Error("[http] csv header: %v", err)
		return
	}
	if err := cw.Write(r.Context(), services.Filter(s.dash.Dataset(), c)); err != nil {
		s.logger.Error("[http] csv rows: %v", err)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	c, ok := criteria(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Handle(c))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]
	format, err := charts.ParseFormat(vars["ext"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	filtered, known := chartFiltered[name]
	if !known {
		writeError(w, http.StatusNotFound, "unknown chart "+name)
		return
	}

	key := name + "." + string(format)
	c := services.DefaultCriteria()
	if filtered {
		var ok bool
		if c, ok = criteria(w, r); !ok {
			return
		}
		key += "?" + c.Key()
	}

	if item := s.cache.Get(key); item != nil {
		writeImage(w, format, item.Value())
		return
	}

	chart, err := BuildChart(s.dash, name, c, s.opts.ChartSize)
	if errors.Is(err, charts.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.logger.Error("[http] build chart %s: %v", key, err)
		writeError(w, http.StatusInternalServerError, "chart build failed")
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(chart, format, &buf); err != nil {
		s.logger.Error("[http] %v", err)
		writeError(w, http.StatusInternalServerError, "chart render failed")
		return
	}

	s.cache.Set(key, buf.Bytes(), ttlcache.DefaultTTL)
	writeImage(w, format, buf.Bytes())
}

func writeImage(w http.ResponseWriter, f charts.Format, body []byte) {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=60")
	_, _ = w.Write(body)
}
