// Package nav turns spoken location phrases into driving directions.
// Geocoding goes through a Nominatim-compatible API and routing through
// an OSRM-compatible one.
package nav

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

const defaultTimeout = 8 * time.Second

// Route is a computed path between two spoken locations.
type Route struct {
	DistanceKm  float64
	DurationMin float64
	Steps       []string
}

// Navigator computes routes from caller-phrased origins and
// destinations.
type Navigator interface {
	Route(ctx context.Context, origin, destination string) (*Route, error)
}

// Client implements Navigator over Nominatim + OSRM HTTP APIs.
type Client struct {
	geocodeURL string
	routeURL   string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a navigation client.
func NewClient(geocodeURL, routeURL string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		geocodeURL: geocodeURL,
		routeURL:   routeURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type coordinate struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Route geocodes both phrases and asks the router for a driving route.
func (c *Client) Route(ctx context.Context, origin, destination string) (*Route, error) {
	from, err := c.geocode(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("nav: could not locate origin %q: %w", origin, err)
	}
	to, err := c.geocode(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("nav: could not locate destination %q: %w", destination, err)
	}
	return c.route(ctx, from, to)
}

func (c *Client) geocode(ctx context.Context, place string) (coordinate, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/search?%s", c.geocodeURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return coordinate{}, fmt.Errorf("nav: failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "echomi-ai-platform/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return coordinate{}, fmt.Errorf("nav: geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return coordinate{}, fmt.Errorf("nav: geocoder returned status %d: %s", resp.StatusCode, body)
	}

	var results []coordinate
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return coordinate{}, fmt.Errorf("nav: failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return coordinate{}, fmt.Errorf("nav: no geocode results for %q", place)
	}
	return results[0], nil
}

func (c *Client) route(ctx context.Context, from, to coordinate) (*Route, error) {
	endpoint := fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s?overview=false&steps=true",
		c.routeURL, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("nav: failed to build route request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nav: route request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("nav: router returned status %d: %s", resp.StatusCode, body)
	}

	var routeResp struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Legs     []struct {
				Steps []struct {
					Name     string `json:"name"`
					Maneuver struct {
						Type     string `json:"type"`
						Modifier string `json:"modifier"`
					} `json:"maneuver"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&routeResp); err != nil {
		return nil, fmt.Errorf("nav: failed to decode route response: %w", err)
	}
	if routeResp.Code != "Ok" || len(routeResp.Routes) == 0 {
		return nil, fmt.Errorf("nav: router found no route (code %s)", routeResp.Code)
	}

	best := routeResp.Routes[0]
	route := &Route{
		DistanceKm:  best.Distance / 1000,
		DurationMin: best.Duration / 60,
	}
	for _, leg := range best.Legs {
		for _, step := range leg.Steps {
			if s := describeStep(step.Maneuver.Type, step.Maneuver.Modifier, step.Name); s != "" {
				route.Steps = append(route.Steps, s)
			}
		}
	}

	c.logger.Debug("nav: route computed",
		"distance_km", route.DistanceKm, "duration_min", route.DurationMin, "steps", len(route.Steps))
	return route, nil
}

// describeStep renders one OSRM maneuver as a spoken instruction.
func describeStep(maneuverType, modifier, road string) string {
	switch maneuverType {
	case "depart":
		if road != "" {
			return "Head out on " + road
		}
		return "Head out"
	case "arrive":
		return "You will arrive at your destination"
	case "turn", "end of road", "fork":
		if modifier == "" {
			return ""
		}
		instruction := "Turn " + modifier
		if road != "" {
			instruction += " onto " + road
		}
		return instruction
	case "continue":
		if road != "" {
			return "Continue on " + road
		}
		return "Continue straight"
	case "roundabout", "rotary":
		if road != "" {
			return "Take the roundabout towards " + road
		}
		return "Go through the roundabout"
	default:
		if road != "" && modifier != "" {
			return "Keep " + modifier + " on " + road
		}
		return ""
	}
}

// Summary flattens a route into one spoken sentence fragment.
func (r *Route) Summary() string {
	return fmt.Sprintf("%.1f km, about %d minutes", r.DistanceKm, int(r.DurationMin+0.5))
}

// SpokenSteps joins up to max steps for reading aloud.
func (r *Route) SpokenSteps(max int) string {
	steps := r.Steps
	if max > 0 && len(steps) > max {
		steps = steps[:max]
	}
	return strings.Join(steps, ". ")
}
