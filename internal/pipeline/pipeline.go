package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/ev-charger-map/internal/domain"
	"github.com/couchcryptid/ev-charger-map/internal/observability"
)

// MarkerPublisher forwards a rendered marker set to an external renderer.
type MarkerPublisher interface {
	Publish(ctx context.Context, set domain.MarkerSet) error
}

// Renderer turns a filter selection into marker specifications. It holds no
// per-request state, so one Renderer serves concurrent callers.
type Renderer struct {
	table            *domain.BaselineTable
	icons            domain.IconResolver
	logger           *slog.Logger
	metrics          *observability.Metrics
	requireSelection bool

	dataset   atomic.Pointer[domain.Dataset]
	publisher MarkerPublisher
	newID     func() string
}

// New creates a Renderer. A nil icons resolver renders plain coloured pins.
// With requireSelection set, nothing is rendered until at least one venue,
// charger, account or location value is selected.
func New(table *domain.BaselineTable, icons domain.IconResolver, logger *slog.Logger, metrics *observability.Metrics, requireSelection bool) *Renderer {
	return &Renderer{
		table:            table,
		icons:            icons,
		logger:           logger,
		metrics:          metrics,
		requireSelection: requireSelection,
		newID:            newRenderID,
	}
}

// RequireSelection reports whether the presentation gate is active.
func (r *Renderer) RequireSelection() bool {
	return r.requireSelection
}

// Gated reports whether sel would be suppressed by the presentation gate.
func (r *Renderer) Gated(sel domain.FilterSelection) bool {
	return r.requireSelection && !sel.HasCategorySelection()
}

// Render filters records by sel and maps each survivor to a marker, in
// filtered order. Records with unusable coordinates are skipped. The result
// is never nil.
func (r *Renderer) Render(ctx context.Context, records []domain.Record, sel domain.FilterSelection) []domain.MarkerSpec {
	start := time.Now()

	if r.Gated(sel) {
		r.metrics.Renders.WithLabelValues("gated").Inc()
		return []domain.MarkerSpec{}
	}

	filtered := domain.Filter(records, sel)
	markers := make([]domain.MarkerSpec, 0, len(filtered))
	for _, rec := range filtered {
		if !domain.ValidGeo(rec.Geo) {
			r.logger.Warn("skipping record with invalid coordinates",
				"account", rec.Account,
				"location", rec.Location,
				"lat", rec.Geo.Lat,
				"lon", rec.Geo.Lon,
			)
			r.metrics.RecordsSkipped.Inc()
			continue
		}

		m := domain.BuildMarker(ctx, r.table, r.icons, rec, sel.Metric, r.logger)
		r.observe(sel.Metric, m)
		markers = append(markers, m)
	}

	r.metrics.Renders.WithLabelValues("rendered").Inc()
	r.metrics.MarkersRendered.Add(float64(len(markers)))
	r.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	return markers
}

func (r *Renderer) observe(metric domain.Metric, m domain.MarkerSpec) {
	if metric == "" {
		return
	}
	if m.Rating == nil {
		r.metrics.MetricParseFailures.Inc()
		return
	}
	r.metrics.Ratings.WithLabelValues(strings.ToLower(m.Rating.String())).Inc()
}

// CheckReadiness returns nil once a dataset is attached, or an error
// describing why the service is not yet ready.
func (r *Renderer) CheckReadiness(_ context.Context) error {
	if r.dataset.Load() == nil {
		return ErrNoDataset
	}
	return nil
}
