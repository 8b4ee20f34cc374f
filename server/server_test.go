package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"rent-dashboard/models"
	"rent-dashboard/services"
	"rent-dashboard/utils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ds := models.NewDataset([]models.Listing{
		{City: "São Paulo", Area: 70, Rooms: 2, Bathroom: 1, Animal: "not acept", RentAmount: 1000, Total: 1500},
		{City: "Rio de Janeiro", Area: 120, Rooms: 4, Bathroom: 3, Animal: "acept", RentAmount: 6000, Total: 7200},
		{City: "Campinas", Area: 55, Rooms: 2, Bathroom: 1, Animal: "not acept", RentAmount: 900, Total: 1100},
		{City: "Rio de Janeiro", Area: 80, Rooms: 3, Bathroom: 2, Animal: "not acept", RentAmount: 4999, Total: 6100},
		{City: "São Paulo", Area: 95, Rooms: 3, Bathroom: 2, Animal: "not acept", RentAmount: 500, Total: 800},
	})
	logger := utils.NewNopLogger()
	srv, err := New(services.NewDashboard(ds, 5, logger), Options{MaxTableRows: 1}, logger)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexRendersDashboard(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Aplicar Filtros")
	assert.Contains(t, body, "/charts/mean-rent.svg")
	assert.NotContains(t, body, "Baixar CSV", "table only appears after a submit")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestIndexSubmittedShowsTableAndChartLinks(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/?submitted=1&city=S%C3%A3o+Paulo&city=Rio+de+Janeiro&animal=not+acept")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Baixar CSV")
	assert.Contains(t, body, "/charts/scatter.svg?")
	assert.Contains(t, body, "price_max=5000", "query must not be escaped away")
	assert.Contains(t, body, "Exibindo as primeiras 1 linhas")
}

func TestIndexEmptySelectionSkipsFilteredCharts(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/?submitted=1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "/charts/scatter.svg")
	assert.NotContains(t, body, "/charts/histogram.svg")
	assert.Contains(t, body, "Nenhum dado")
}

func TestInvalidCriteriaIsBadRequest(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{
		"/?rooms_min=x",
		"/api/listings?price_min=900&price_max=100",
		"/charts/scatter.svg?bathroom_max=abc",
	} {
		rec := get(t, srv, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestBounds(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/bounds")
	require.Equal(t, http.StatusOK, rec.Code)

	var b models.Bounds
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.ElementsMatch(t, []string{"São Paulo", "Rio de Janeiro", "Campinas"}, b.Cities)
	assert.Equal(t, models.IntRange{Min: 2, Max: 4}, b.Rooms)
	assert.Equal(t, models.FloatRange{Min: 500, Max: 6000}, b.Price)
}

func TestAggregates(t *testing.T) {
	srv := newTestServer(t)

	for _, field := range []string{"rent", "total"} {
		rec := get(t, srv, "/api/aggregates/"+field)
		require.Equal(t, http.StatusOK, rec.Code, field)

		var means []models.CityMean
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &means))
		require.Len(t, means, 3)
		assert.Equal(t, "Rio de Janeiro", means[2].City, "ascending by mean")
		for i := 1; i < len(means); i++ {
			assert.LessOrEqual(t, means[i-1].Mean, means[i].Mean)
		}
	}

	rec := get(t, srv, "/api/aggregates/area")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListingsJSONUsesDefaults(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/listings")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []models.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 3)
	assert.Equal(t, 1000.0, out[0].RentAmount)
}

func TestListingsCSVCarriesEveryRow(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/listings.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4, "header plus every filtered row despite MaxTableRows")
	assert.True(t, strings.HasPrefix(lines[0], "city,"))
}

func TestViewJSON(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/view")
	require.Equal(t, http.StatusOK, rec.Code)

	var v struct {
		Listings []models.Listing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Len(t, v.Listings, 3)
}

func TestChartsRenderAndCache(t *testing.T) {
	srv := newTestServer(t)

	for _, name := range []string{ChartMeanRent, ChartMeanTotal, ChartScatter, ChartHistogram} {
		rec := get(t, srv, "/charts/"+name+".svg")
		require.Equal(t, http.StatusOK, rec.Code, name)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "<svg")
	}
	assert.Equal(t, 4, srv.cache.Len())

	first := get(t, srv, "/charts/mean-rent.svg").Body.String()
	second := get(t, srv, "/charts/mean-rent.svg").Body.String()
	assert.Equal(t, first, second)
	assert.Equal(t, 4, srv.cache.Len(), "repeat requests are served from the cache")

	rec := get(t, srv, "/charts/mean-rent.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, 5, srv.cache.Len())
}

func TestFilteredChartsAreKeyedByCriteria(t *testing.T) {
	srv := newTestServer(t)

	get(t, srv, "/charts/scatter.svg")
	get(t, srv, "/charts/scatter.svg?submitted=1&city=Campinas&animal=not+acept&rooms_min=1&price_min=0")
	assert.Equal(t, 2, srv.cache.Len())
}

func TestEmptyFilteredChartIsNoContent(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/charts/histogram.svg?submitted=1&city=Nowhere")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, srv.cache.Len())
}

func TestUnknownRoutes(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/charts/pie.svg").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/charts/scatter.gif").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestBRL(t *testing.T) {
	assert.Equal(t, "R$ 0", brl(0))
	assert.Equal(t, "R$ 950", brl(950))
	assert.Equal(t, "R$ 3.300", brl(3300))
	assert.Equal(t, "R$ 1.234.568", brl(1234567.8))
	assert.Equal(t, "R$ -1.500", brl(-1500))
}
