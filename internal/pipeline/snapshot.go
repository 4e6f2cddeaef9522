package pipeline

import (
	"context"
	"errors"

	"github.com/couchcryptid/ev-charger-map/internal/domain"
	"github.com/google/uuid"
)

// ErrNoDataset is returned by Snapshot before a dataset is attached.
var ErrNoDataset = errors.New("no dataset loaded")

// SetDataset attaches the dataset used by Snapshot. It may be called again to
// swap in a reloaded dataset; in-flight renders keep the one they started with.
// A nil dataset detaches the current one and the renderer reports not ready.
func (r *Renderer) SetDataset(ds *domain.Dataset) {
	r.dataset.Store(ds)
	if ds == nil {
		r.metrics.DatasetRecords.Set(0)
		return
	}
	r.metrics.DatasetRecords.Set(float64(len(ds.Records)))
}

// Dataset returns the attached dataset, or nil.
func (r *Renderer) Dataset() *domain.Dataset {
	return r.dataset.Load()
}

// SetPublisher installs a publisher that receives every snapshot.
func (r *Renderer) SetPublisher(p MarkerPublisher) {
	r.publisher = p
}

// Snapshot renders sel against the attached dataset and stamps the result
// with a render ID and timestamp. A failed publish is logged and counted but
// does not fail the snapshot.
func (r *Renderer) Snapshot(ctx context.Context, sel domain.FilterSelection) (domain.MarkerSet, error) {
	if err := sel.Normalize(); err != nil {
		return domain.MarkerSet{}, err
	}
	ds := r.dataset.Load()
	if ds == nil {
		return domain.MarkerSet{}, ErrNoDataset
	}

	markers := r.Render(ctx, ds.Records, sel)
	set := domain.NewMarkerSet(r.newID(), sel, ds.View, r.Gated(sel), markers)

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, set); err != nil {
			r.logger.Error("publish marker set failed", "id", set.ID, "error", err)
			r.metrics.MarkerPublishErrors.Inc()
		} else {
			r.metrics.MarkerSetsPublished.Inc()
		}
	}
	return set, nil
}

func newRenderID() string {
	return uuid.NewString()
}
