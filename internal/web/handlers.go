package web

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roach88/covidtesting/internal/dataset"
	"github.com/roach88/covidtesting/internal/pipeline"
	"github.com/roach88/covidtesting/internal/render"
)

// Intro is the explanatory text shown above the chart.
const Intro = `## Tests per capita by state

Widespread testing paired with contact tracing let some countries contain
the outbreak without a full lockdown. This chart compares how much testing
each US state has done, scaled to tests per million residents so large and
small states can be read on the same axis.

Testing counts come from the [COVID Tracking Project](https://covidtracking.com/api/);
populations are 2019 estimates from the
[US Census Bureau](https://www.census.gov/data/tables/time-series/demo/popest/2010s-state-total.html).
Reporting quality varies between states.
`

// DashboardResponse is the payload of GET /api/dashboard.
type DashboardResponse struct {
	Title         string           `json:"title"`
	Intro         string           `json:"intro"`
	XAxis         string           `json:"x_axis"`
	YAxis         string           `json:"y_axis"`
	States        []string         `json:"states"`
	DefaultStates []string         `json:"default_states"`
	Summary       pipeline.Summary `json:"summary"`
}

// SeriesResponse is the payload of GET /api/series.
type SeriesResponse struct {
	SnapshotID string           `json:"snapshot_id"`
	States     []string         `json:"states"`
	Series     []dataset.Series `json:"series"`
}

// ErrorResponse is the payload of every non-2xx answer.
type ErrorResponse struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind,omitempty"`
	Codes []string `json:"codes,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "snapshot_id": s.dash.SnapshotID()})
}

func (s *Server) handleDashboard(c *gin.Context) {
	chart := s.dash.Chart()
	c.JSON(http.StatusOK, DashboardResponse{
		Title:         chart.Title,
		Intro:         Intro,
		XAxis:         chart.XAxis,
		YAxis:         chart.YAxis,
		States:        s.dash.States(),
		DefaultStates: s.dash.DefaultStates(),
		Summary:       s.dash.Summary(),
	})
}

func (s *Server) handleSeries(c *gin.Context) {
	states := s.requestedStates(c)
	series, err := s.dash.Series(states)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SeriesResponse{
		SnapshotID: s.dash.SnapshotID(),
		States:     dataset.NormalizeCodes(states),
		Series:     series,
	})
}

func (s *Server) handleChart(c *gin.Context) {
	series, err := s.dash.Series(s.requestedStates(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	format, contentType := render.PNG, "image/png"
	if strings.HasSuffix(c.Request.URL.Path, ".svg") {
		format, contentType = render.SVG, "image/svg+xml"
	}

	var buf bytes.Buffer
	if err := render.Chart(series, render.ChartOptions{Chart: s.dash.Chart(), Format: format}, &buf); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// requestedStates reads ?states=NY,CA (or repeated states=) and falls back
// to the default selection when the parameter is absent.
func (s *Server) requestedStates(c *gin.Context) []string {
	raw, ok := c.GetQueryArray("states")
	if !ok {
		return s.dash.DefaultStates()
	}
	var states []string
	for _, r := range raw {
		for _, code := range strings.Split(r, ",") {
			if code = strings.TrimSpace(code); code != "" {
				states = append(states, code)
			}
		}
	}
	if states == nil {
		states = []string{}
	}
	return states
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}

	var e *dataset.Error
	if errors.As(err, &e) {
		resp.Kind = string(e.Kind)
		resp.Codes = e.Codes
		if e.Kind == dataset.KindSelection {
			status = http.StatusNotFound
		}
	}
	if errors.Is(err, render.ErrNothingToRender) {
		status = http.StatusUnprocessableEntity
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
	} else {
		s.log.Info("request rejected", "path", c.Request.URL.Path, "error", err)
	}
	c.AbortWithStatusJSON(status, resp)
}
