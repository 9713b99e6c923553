package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/roach88/covidtesting/internal/config"
	"github.com/roach88/covidtesting/internal/dataset"
	"github.com/roach88/covidtesting/internal/ingest"
)

// BuildOptions carries the collaborators of Build. Zero values select
// production defaults.
type BuildOptions struct {
	Logger *slog.Logger
	Client *http.Client
	IDs    IDGenerator
	Now    func() time.Time
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.IDs == nil {
		o.IDs = UUIDv7Generator{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Dashboard is the application context: every table the front ends need,
// computed once. All accessors return copies.
type Dashboard struct {
	snapshotID    string
	loadedAt      time.Time
	source        string
	raw           *dataset.Table
	population    dataset.PopulationTable
	normalized    *dataset.Table
	dropped       []string
	defaultStates []string
	chart         config.Chart
}

// Build loads both inputs named by cfg and assembles a Dashboard.
// Any error is fatal for the caller: there is no partial dashboard.
func Build(ctx context.Context, cfg config.Config, opts BuildOptions) (*Dashboard, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	log.Info("loading testing feed", "source", cfg.SourceURL, "timeout", cfg.FetchTimeout)
	start := opts.Now()
	raw, err := ingest.LoadTesting(ctx, cfg.SourceURL, ingest.Options{
		Timeout: cfg.FetchTimeout,
		Client:  opts.Client,
	})
	if err != nil {
		return nil, err
	}
	log.Info("testing feed loaded", "dates", raw.Len(), "states", len(raw.Columns()), "elapsed", opts.Now().Sub(start))

	log.Info("loading population table", "path", cfg.PopulationPath)
	pop, err := ingest.LoadPopulation(cfg.PopulationPath)
	if err != nil {
		return nil, err
	}
	log.Debug("population table loaded", "states", pop.Len())

	d, err := Assemble(raw, pop, cfg, opts)
	if err != nil {
		return nil, err
	}
	d.source = cfg.SourceURL
	return d, nil
}

// Assemble normalizes already loaded tables into a Dashboard.
func Assemble(raw *dataset.Table, pop dataset.PopulationTable, cfg config.Config, opts BuildOptions) (*Dashboard, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	res, err := Normalize(raw, pop)
	if err != nil {
		return nil, err
	}
	if len(res.Dropped) > 0 {
		log.Info("dropped states without population", "states", res.Dropped)
	}

	var defaults, unavailable []string
	for _, c := range dataset.NormalizeCodes(cfg.DefaultStates) {
		if res.Series.Has(c) {
			defaults = append(defaults, c)
		} else {
			unavailable = append(unavailable, c)
		}
	}
	if len(unavailable) > 0 {
		log.Warn("default states have no data", "states", unavailable)
	}
	if defaults == nil {
		defaults = []string{}
	}

	d := &Dashboard{
		snapshotID:    opts.IDs.Generate(),
		loadedAt:      opts.Now().UTC(),
		raw:           raw,
		population:    pop,
		normalized:    res.Series,
		dropped:       res.Dropped,
		defaultStates: defaults,
		chart:         cfg.Chart,
	}
	log.Info("dashboard ready",
		"snapshot", d.snapshotID,
		"states", len(res.Series.Columns()),
		"dates", res.Series.Len(),
		"digest", res.Series.Digest()[:12],
	)
	return d, nil
}

// Series returns the per-million series for states in request order.
// Unknown codes fail with a selection error; the Dashboard stays usable.
func (d *Dashboard) Series(states []string) ([]dataset.Series, error) {
	return Select(d.normalized, states)
}

// States lists the selectable state codes.
func (d *Dashboard) States() []string { return d.normalized.Columns() }

// DefaultStates is the configured initial selection, restricted to states
// that have data.
func (d *Dashboard) DefaultStates() []string {
	out := make([]string, len(d.defaultStates))
	copy(out, d.defaultStates)
	return out
}

// Dropped lists feed states excluded for lack of a population entry.
func (d *Dashboard) Dropped() []string {
	out := make([]string, len(d.dropped))
	copy(out, d.dropped)
	return out
}

// Normalized returns the per-million table. Callers must not modify it.
func (d *Dashboard) Normalized() *dataset.Table { return d.normalized }

// Raw returns the pivoted testing counts. Callers must not modify it.
func (d *Dashboard) Raw() *dataset.Table { return d.raw }

// Population returns the population table.
func (d *Dashboard) Population() dataset.PopulationTable { return d.population }

// Chart returns the chart labels and size.
func (d *Dashboard) Chart() config.Chart { return d.chart }

// SnapshotID identifies this load.
func (d *Dashboard) SnapshotID() string { return d.snapshotID }

// Summary describes a Dashboard for the CLI and the HTTP API.
type Summary struct {
	SnapshotID string    `json:"snapshot_id"`
	LoadedAt   time.Time `json:"loaded_at"`
	Source     string    `json:"source,omitempty"`
	Dates      int       `json:"dates"`
	FirstDate  string    `json:"first_date,omitempty"`
	LastDate   string    `json:"last_date,omitempty"`
	RawStates  int       `json:"raw_states"`
	States     []string  `json:"states"`
	Dropped    []string  `json:"dropped"`
	Digest     string    `json:"digest"`
}

// Summary returns counts and the date span of the normalized table.
func (d *Dashboard) Summary() Summary {
	s := Summary{
		SnapshotID: d.snapshotID,
		LoadedAt:   d.loadedAt,
		Source:     d.source,
		Dates:      d.normalized.Len(),
		RawStates:  len(d.raw.Columns()),
		States:     d.States(),
		Dropped:    d.Dropped(),
		Digest:     d.normalized.Digest(),
	}
	if first, last, ok := d.normalized.Span(); ok {
		s.FirstDate = dataset.FormatDate(first)
		s.LastDate = dataset.FormatDate(last)
	}
	return s
}

// String renders the summary for text output.
func (s Summary) String() string {
	span := "no dates"
	if s.Dates > 0 {
		span = fmt.Sprintf("%s .. %s", s.FirstDate, s.LastDate)
	}
	return fmt.Sprintf("snapshot %s\ndates: %d (%s)\nstates: %d of %d in feed\ndropped: %v",
		s.SnapshotID, s.Dates, span, len(s.States), s.RawStates, s.Dropped)
}
