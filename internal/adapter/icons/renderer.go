// Package icons renders account SVG icons recolored to a marker color.
package icons

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/couchcryptid/ev-charger-map/internal/domain"
	"github.com/couchcryptid/ev-charger-map/internal/observability"
)

const dataURIPrefix = "data:image/svg+xml;base64,"

// SVGRenderer implements domain.IconResolver by reading SVG assets from a
// directory and rewriting their fill colors.
type SVGRenderer struct {
	dir     string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewSVGRenderer creates a renderer over the icon assets in dir.
func NewSVGRenderer(dir string, metrics *observability.Metrics, logger *slog.Logger) *SVGRenderer {
	return &SVGRenderer{dir: dir, metrics: metrics, logger: logger}
}

// ResolveIcon returns the account's icon with every non-"none" fill set to
// color, as a base64 SVG data URI. Accounts without an icon return
// domain.ErrNoIcon. Failures are returned, not warned about; the marker
// mapper logs them with the account context.
func (r *SVGRenderer) ResolveIcon(_ context.Context, account string, color domain.Color) (domain.IconResource, error) {
	asset, ok := domain.IconAsset(account)
	if !ok {
		r.metrics.IconRequests.WithLabelValues("unknown_account").Inc()
		return domain.IconResource{}, fmt.Errorf("%w: %q", domain.ErrNoIcon, account)
	}

	data, err := recolor(filepath.Join(r.dir, asset), string(color))
	if err != nil {
		r.metrics.IconRequests.WithLabelValues("error").Inc()
		r.logger.Debug("icon render failed", "asset", asset, "error", err)
		return domain.IconResource{}, fmt.Errorf("render icon %s: %w", asset, err)
	}

	r.metrics.IconRequests.WithLabelValues("success").Inc()
	return domain.IconResource{URL: dataURIPrefix + base64.StdEncoding.EncodeToString(data)}, nil
}

// recolor loads the SVG at path, sets every fill attribute that is not
// "none" to color, and serializes it with an XML declaration.
func recolor(path, color string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%s: no root element", filepath.Base(path))
	}

	for _, el := range doc.FindElements("//*") {
		for i := range el.Attr {
			a := &el.Attr[i]
			if a.Space == "" && a.Key == "fill" && a.Value != "none" {
				a.Value = color
			}
		}
	}

	ensureDeclaration(doc)
	return doc.WriteToBytes()
}

func ensureDeclaration(doc *etree.Document) {
	for _, tok := range doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			return
		}
	}
	doc.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="utf-8"`))
}
