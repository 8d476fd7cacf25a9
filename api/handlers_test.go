package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"github.com/SHAH-MEER/tbatlas/core"
	"github.com/SHAH-MEER/tbatlas/dataset"
	"github.com/SHAH-MEER/tbatlas/similarity"
	"github.com/SHAH-MEER/tbatlas/viewmodel"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testCSV = `country,iso2,iso3,iso_numeric,region,year,population,prevalence_num,prevalence_rate,incidence_rate,incidence_num,mortality_rate,deaths_num,hiv_in_tb_percent,detection_rate
Afghanistan,AF,AFG,4,EMR,2010,28000000,100000,340,189,53000,35,13000,0.4,51
Afghanistan,AF,AFG,4,EMR,2011,29000000,102000,350,189,55000,38,14000,0.5,53
Albania,AL,ALB,8,EUR,2010,2900000,600,21,18,520,1.1,40,0.1,87
Albania,AL,ALB,8,EUR,2011,2900000,580,20,17,500,1,38,0.1,88
Brazil,BR,BRA,76,AMR,2010,195000000,110000,56,46,90000,2.8,5500,17,84
Brazil,BR,BRA,76,AMR,2011,197000000,105000,54,44,88000,2.6,5300,17,85
`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tb.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0644); err != nil {
		t.Fatal(err)
	}

	store := dataset.NewStore(path, nil, nil, nil)
	engine := similarity.NewEngine(0, nil)
	return NewServer(store, engine, DefaultServerConfig(), nil, "test")
}

func doRequest(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", rr.Body.String(), err)
	}
}

func TestAPIEndpoints(t *testing.T) {
	server := newTestServer(t)

	t.Run("Health", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/health", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		var response HealthResponse
		decodeBody(t, rr, &response)
		if response.Status != "healthy" {
			t.Errorf("status = %q, want healthy", response.Status)
		}
		if response.Version != "test" {
			t.Errorf("version = %q, want test", response.Version)
		}
	})

	t.Run("Catalog", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/catalog", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var catalog dataset.Catalog
		decodeBody(t, rr, &catalog)
		if len(catalog.Countries) != 3 {
			t.Errorf("countries = %d, want 3", len(catalog.Countries))
		}
		if len(catalog.Years) != 2 || catalog.Years[0] != 2010 || catalog.Years[1] != 2011 {
			t.Errorf("years = %v, want [2010 2011]", catalog.Years)
		}
		if len(catalog.Metrics) == 0 {
			t.Error("expected metric registry in catalog")
		}
	})

	t.Run("Stats", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/stats", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		var response StatsResponse
		decodeBody(t, rr, &response)
		if response.Dataset.Rows != 6 {
			t.Errorf("rows = %d, want 6", response.Dataset.Rows)
		}
		if len(response.Columns) == 0 {
			t.Error("expected column summaries")
		}
	})

	t.Run("Overview", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/views/overview", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var view viewmodel.OverviewView
		decodeBody(t, rr, &view)
		if view.Year != 2011 {
			t.Errorf("year = %d, want latest 2011", view.Year)
		}
		if len(view.Cards) != 3 {
			t.Errorf("cards = %d, want 3", len(view.Cards))
		}
		if len(view.Map.Entries) != 3 {
			t.Errorf("map entries = %d, want 3", len(view.Map.Entries))
		}
	})

	t.Run("OverviewExplicitYear", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/views/overview?year=2010", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		var view viewmodel.OverviewView
		decodeBody(t, rr, &view)
		if view.Year != 2010 {
			t.Errorf("year = %d, want 2010", view.Year)
		}
	})

	t.Run("Comparison", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/views/comparison?year=2011&countries=AFG,BRA", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var view viewmodel.ComparisonView
		decodeBody(t, rr, &view)
		if view.Empty {
			t.Fatalf("unexpected empty view: %s", view.Message)
		}
		if len(view.Rows) != 2 {
			t.Errorf("rows = %d, want 2", len(view.Rows))
		}
		wantLabels := []string{"Afghanistan", "Brazil"}
		if len(view.IncidenceBars.Labels) != 2 ||
			view.IncidenceBars.Labels[0] != wantLabels[0] ||
			view.IncidenceBars.Labels[1] != wantLabels[1] {
			t.Errorf("incidence labels = %v, want %v", view.IncidenceBars.Labels, wantLabels)
		}
	})

	t.Run("ComparisonEmptySelection", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/views/comparison?year=2011", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		var view viewmodel.ComparisonView
		decodeBody(t, rr, &view)
		if !view.Empty {
			t.Error("expected empty placeholder for missing country selection")
		}
	})

	t.Run("Trends", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/views/trends?countries=Afghanistan&from=2010&to=2011", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var view viewmodel.TrendsView
		decodeBody(t, rr, &view)
		if len(view.IncidenceLines.Years) != 2 {
			t.Errorf("line years = %v, want [2010 2011]", view.IncidenceLines.Years)
		}
		if len(view.Bubble.Points) == 0 {
			t.Error("expected bubble points over the full dataset")
		}
	})

	t.Run("Regional", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/views/regional?region=EUR", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var view viewmodel.RegionalView
		decodeBody(t, rr, &view)
		if len(view.PrevalenceBars.Labels) != 1 || view.PrevalenceBars.Labels[0] != "Albania" {
			t.Errorf("labels = %v, want [Albania]", view.PrevalenceBars.Labels)
		}
	})

	t.Run("Profile", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/views/profile?country=Brazil", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var view viewmodel.ProfileView
		decodeBody(t, rr, &view)
		if view.ISO3 != "BRA" {
			t.Errorf("iso3 = %q, want BRA", view.ISO3)
		}
		if len(view.Records) != 2 {
			t.Errorf("records = %d, want 2", len(view.Records))
		}
	})

	t.Run("ProfileUnknownCountry", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/views/profile?country=Atlantis", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		var view viewmodel.ProfileView
		decodeBody(t, rr, &view)
		if !view.Empty {
			t.Error("expected empty placeholder for unknown country")
		}
	})

	t.Run("Explorer", func(t *testing.T) {
		req := viewmodel.ExplorerRequest{
			Filter: core.Filter{
				Regions: []string{"EMR"},
				Years:   core.YearRange{From: 2010, To: 2011},
			},
			Page:    1,
			PerPage: 10,
		}
		rr := doRequest(t, server, "POST", "/views/explorer", req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var view viewmodel.ExplorerView
		decodeBody(t, rr, &view)
		if view.Total != 2 {
			t.Errorf("total = %d, want 2", view.Total)
		}
		if len(view.Rows) != 2 {
			t.Errorf("rows = %d, want 2", len(view.Rows))
		}
	})

	t.Run("ExplorerCondition", func(t *testing.T) {
		req := viewmodel.ExplorerRequest{
			Filter: core.Filter{
				Conditions: []core.Condition{
					{Metric: core.MetricIncidenceRate, Op: core.OpGt, Value: 100},
				},
			},
		}
		rr := doRequest(t, server, "POST", "/views/explorer", req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var view viewmodel.ExplorerView
		decodeBody(t, rr, &view)
		// Only the two Afghanistan rows clear incidence_rate > 100.
		if view.Total != 2 {
			t.Errorf("total = %d, want 2", view.Total)
		}
	})

	t.Run("Similarity", func(t *testing.T) {
		rr := doRequest(t, server, "POST", "/views/similarity", similarity.Request{
			Country: "Afghanistan",
			Year:    2011,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var result similarity.Result
		decodeBody(t, rr, &result)
		if result.ISO3 != "AFG" {
			t.Errorf("iso3 = %q, want AFG", result.ISO3)
		}
		if len(result.Neighbors) != 2 {
			t.Fatalf("neighbors = %d, want 2", len(result.Neighbors))
		}
		for _, n := range result.Neighbors {
			if n.ISO3 == "AFG" {
				t.Error("ranking contains the query country")
			}
		}
		if result.Neighbors[0].Score < result.Neighbors[1].Score {
			t.Error("scores not in descending order")
		}
	})

	t.Run("SimilarityDefaultsYear", func(t *testing.T) {
		rr := doRequest(t, server, "POST", "/views/similarity", similarity.Request{
			Country: "Albania",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var result similarity.Result
		decodeBody(t, rr, &result)
		if result.Year != 2011 {
			t.Errorf("year = %d, want latest 2011", result.Year)
		}
	})

	t.Run("Map", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/views/map", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
		}

		var view viewmodel.MapView
		decodeBody(t, rr, &view)
		if view.Metric != core.MetricPrevalenceRate {
			t.Errorf("metric = %q, want prevalence_rate", view.Metric)
		}
		if len(view.Frames) != 2 {
			t.Errorf("frames = %d, want 2", len(view.Frames))
		}
	})

	t.Run("Docs", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/docs", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("content type = %q, want text/html", ct)
		}
		if !strings.Contains(rr.Body.String(), "tbatlas API") {
			t.Error("docs page missing title")
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		rr := doRequest(t, server, "GET", "/metrics", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if !strings.Contains(rr.Body.String(), "tbatlas_http_requests_total") {
			t.Error("metrics output missing request counter")
		}
	})
}

func TestValidationErrors(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{
			name:   "overview bad year",
			method: "GET",
			path:   "/views/overview?year=abc",
			want:   http.StatusBadRequest,
		},
		{
			name:   "trends inverted range",
			method: "GET",
			path:   "/views/trends?from=2012&to=2010",
			want:   http.StatusBadRequest,
		},
		{
			name:   "regional missing region",
			method: "GET",
			path:   "/views/regional",
			want:   http.StatusBadRequest,
		},
		{
			name:   "profile missing country",
			method: "GET",
			path:   "/views/profile",
			want:   http.StatusBadRequest,
		},
		{
			name:   "map unknown metric",
			method: "GET",
			path:   "/views/map?metric=gdp",
			want:   http.StatusBadRequest,
		},
		{
			name:   "similarity missing country",
			method: "POST",
			path:   "/views/similarity",
			body:   similarity.Request{Year: 2011},
			want:   http.StatusBadRequest,
		},
		{
			name:   "similarity unknown metric",
			method: "POST",
			path:   "/views/similarity",
			body: similarity.Request{
				Country: "Afghanistan",
				Year:    2011,
				Metrics: []core.Metric{"bogus"},
			},
			want: http.StatusBadRequest,
		},
		{
			name:   "similarity unknown country",
			method: "POST",
			path:   "/views/similarity",
			body:   similarity.Request{Country: "Atlantis", Year: 2011},
			want:   http.StatusNotFound,
		},
		{
			name:   "explorer unknown condition metric",
			method: "POST",
			path:   "/views/explorer",
			body: viewmodel.ExplorerRequest{
				Filter: core.Filter{
					Conditions: []core.Condition{{Metric: "bogus", Op: core.OpGt, Value: 1}},
				},
			},
			want: http.StatusBadRequest,
		},
		{
			name:   "explorer invalid op",
			method: "POST",
			path:   "/views/explorer",
			body: viewmodel.ExplorerRequest{
				Filter: core.Filter{
					Conditions: []core.Condition{{Metric: core.MetricIncidenceRate, Op: "between", Value: 1}},
				},
			},
			want: http.StatusBadRequest,
		},
		{
			name:   "unknown route",
			method: "GET",
			path:   "/nope",
			want:   http.StatusNotFound,
		},
		{
			name:   "method not allowed",
			method: "POST",
			path:   "/health",
			want:   http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, server, tt.method, tt.path, tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/views/explorer", "/views/similarity"} {
		req := httptest.NewRequest("POST", path, strings.NewReader("{not json"))
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("POST %s with bad body status = %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	server := newTestServer(t)

	rr := doRequest(t, server, "GET", "/health", nil)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("response missing generated X-Request-ID")
	}

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("X-Request-ID = %q, want fixed-id", got)
	}
}

func TestMissingDatasetFile(t *testing.T) {
	store := dataset.NewStore(filepath.Join(t.TempDir(), "absent.csv"), nil, nil, nil)
	server := NewServer(store, similarity.NewEngine(0, nil), DefaultServerConfig(), nil, "test")

	rr := doRequest(t, server, "GET", "/catalog", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
