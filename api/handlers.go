package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SHAH-MEER/tbatlas/core"
	"github.com/SHAH-MEER/tbatlas/dataset"
	"github.com/SHAH-MEER/tbatlas/similarity"
	"github.com/SHAH-MEER/tbatlas/viewmodel"
)

// Health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
	}
	s.respondWithJSON(w, http.StatusOK, response)
}

// handleCatalog returns the filter widget catalog: countries, regions,
// years and the metric registry
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	_, catalog, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, catalog)
}

// Stats response types
type StatsResponse struct {
	Dataset dataset.StoreStats      `json:"dataset"`
	Columns []dataset.ColumnSummary `json:"columns"`
}

// handleStats returns loader state and per-column dataset statistics
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ds, _, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}

	response := StatsResponse{
		Dataset: s.store.Stats(),
		Columns: dataset.Summarize(ds),
	}
	s.respondWithJSON(w, http.StatusOK, response)
}

// handleOverview returns the global overview tab
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, _, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, viewmodel.BuildOverview(ds, year))
}

// handleComparison returns the country comparison tab for one year
func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	countries := queryList(r, "countries")

	ds, catalog, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}
	if year == 0 {
		year = catalog.LatestYear()
	}

	s.respondWithJSON(w, http.StatusOK, viewmodel.BuildComparison(ds, year, countries))
}

// handleTrends returns the trends tab for a country selection and year range
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	countries := queryList(r, "countries")
	years, err := queryYearRange(r)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, _, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, viewmodel.BuildTrends(ds, countries, years))
}

// handleRegional returns the regional analysis tab for one region
func (s *Server) handleRegional(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		s.respondWithError(w, http.StatusBadRequest, "region is required")
		return
	}
	years, err := queryYearRange(r)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, _, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, viewmodel.BuildRegional(ds, region, years))
}

// handleProfile returns the country profile tab
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		s.respondWithError(w, http.StatusBadRequest, "country is required")
		return
	}

	ds, _, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, viewmodel.BuildProfile(ds, country))
}

// handleExplorer runs a structured query against the dataset and returns
// the matching rows plus aggregate charts
func (s *Server) handleExplorer(w http.ResponseWriter, r *http.Request) {
	var req viewmodel.ExplorerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := core.ValidateFilter(req.Filter); err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, _, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, viewmodel.BuildExplorer(ds, req))
}

// handleSimilarity ranks countries by burden profile similarity
func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	var req similarity.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Country == "" {
		s.respondWithError(w, http.StatusBadRequest, "country is required")
		return
	}

	ds, catalog, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}
	if req.Year == 0 {
		req.Year = catalog.LatestYear()
	}

	result, err := s.engine.Rank(r.Context(), ds, req)
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, result)
}

// handleMap returns per-year choropleth frames for one metric
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	metric := core.Metric(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = core.MetricPrevalenceRate
	}
	if !core.KnownMetric(metric) {
		s.respondWithError(w, http.StatusBadRequest, "unknown metric: "+string(metric))
		return
	}
	years, err := queryYearRange(r)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, _, err := s.store.Get(r.Context())
	if err != nil {
		s.respondWithError(w, errorStatus(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, viewmodel.BuildMap(ds, metric, years))
}

// errorStatus maps domain errors to HTTP status codes. Validation failures
// are client errors, a missing target row is 404 and anything else is a 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNoMetrics),
		errors.Is(err, core.ErrUnknownMetric),
		errors.Is(err, core.ErrInvalidOp),
		errors.Is(err, core.ErrDimension):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// queryInt parses an optional integer query parameter; absent returns 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter: " + raw)
	}
	return v, nil
}

// queryList gathers a multi-valued query parameter, splitting each value
// on commas, so ?countries=AFG,BRA and ?countries=AFG&countries=BRA are
// equivalent.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// queryYearRange parses optional from/to query parameters into a year range.
func queryYearRange(r *http.Request) (core.YearRange, error) {
	from, err := queryInt(r, "from")
	if err != nil {
		return core.YearRange{}, err
	}
	to, err := queryInt(r, "to")
	if err != nil {
		return core.YearRange{}, err
	}
	years := core.YearRange{From: from, To: to}
	if err := core.ValidateFilter(core.Filter{Years: years}); err != nil {
		return core.YearRange{}, err
	}
	return years, nil
}
