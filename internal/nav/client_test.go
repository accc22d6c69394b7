package nav

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServers(t *testing.T) (geocode, route *httptest.Server) {
	t.Helper()
	geocode = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query().Get("q")
		if strings.Contains(strings.ToLower(q), "nowhere") {
			w.Write([]byte(`[]`))
			return
		}
		if strings.Contains(q, "Cubbon") {
			w.Write([]byte(`[{"lat":"12.9763","lon":"77.5929"}]`))
			return
		}
		w.Write([]byte(`[{"lat":"12.9719","lon":"77.6080"}]`))
	}))
	t.Cleanup(geocode.Close)

	route = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 2300,
				"duration": 540,
				"legs": [{"steps": [
					{"name": "Kasturba Road", "maneuver": {"type": "depart"}},
					{"name": "MG Road", "maneuver": {"type": "turn", "modifier": "left"}},
					{"name": "", "maneuver": {"type": "arrive"}}
				]}]
			}]
		}`))
	}))
	t.Cleanup(route.Close)
	return geocode, route
}

func TestRoute(t *testing.T) {
	geocode, routeSrv := newTestServers(t)
	client := NewClient(geocode.URL, routeSrv.URL, nil)

	route, err := client.Route(context.Background(), "Cubbon Park", "Brigade Road")
	require.NoError(t, err)
	assert.InDelta(t, 2.3, route.DistanceKm, 0.001)
	assert.InDelta(t, 9.0, route.DurationMin, 0.001)
	require.Len(t, route.Steps, 3)
	assert.Equal(t, "Head out on Kasturba Road", route.Steps[0])
	assert.Equal(t, "Turn left onto MG Road", route.Steps[1])
}

func TestRouteUnknownPlace(t *testing.T) {
	geocode, routeSrv := newTestServers(t)
	client := NewClient(geocode.URL, routeSrv.URL, nil)

	_, err := client.Route(context.Background(), "nowhere land", "Brigade Road")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "origin")
}

func TestRouteRouterFailure(t *testing.T) {
	geocode, _ := newTestServers(t)
	routeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer routeSrv.Close()

	client := NewClient(geocode.URL, routeSrv.URL, nil)
	_, err := client.Route(context.Background(), "Cubbon Park", "Brigade Road")
	assert.Error(t, err)
}

func TestRouteSummaryAndSpokenSteps(t *testing.T) {
	route := &Route{
		DistanceKm:  2.3,
		DurationMin: 8.7,
		Steps:       []string{"Head out", "Turn left onto MG Road", "You will arrive at your destination"},
	}
	assert.Equal(t, "2.3 km, about 9 minutes", route.Summary())
	assert.Equal(t, "Head out. Turn left onto MG Road", route.SpokenSteps(2))
}
