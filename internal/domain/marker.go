package domain

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"strings"
)

// Color is a named marker color understood by the map front end.
type Color string

const (
	ColorGreen   Color = "green"
	ColorOrange  Color = "orange"
	ColorRed     Color = "red"
	ColorDarkRed Color = "darkred"
	ColorBlue    Color = "blue"
	ColorGray    Color = "gray"
)

// DefaultColor is used when no metric is selected.
const DefaultColor = ColorBlue

// IndeterminateColor marks a record whose metric value could not be read.
const IndeterminateColor = ColorGray

// PopupMaxWidth is the popup width in pixels requested from the map.
const PopupMaxWidth = 300

// popupHidden lists columns left out of popups.
var popupHidden = map[string]bool{
	ColumnLatitude:  true,
	ColumnLongitude: true,
	ColumnPostcode:  true,
}

// accountIcons maps key accounts to their SVG icon asset.
var accountIcons = map[string]string{
	"Greene King": "GK_Crown_Icon.svg",
	"NT":          "NT_Acorn_Icon.svg",
	"Aberdeen":    "Aberdeen_A_Icon.svg",
	"Aviva":       "Aviva_Sun_Icon.svg",
	"Bespoke":     "Bespoke_House_Icon.svg",
	"MAG":         "MAG_Shopping_Bag_Icon.svg",
	"Merlin":      "Merlin_M_Icon.svg",
	"St George's": "St_Georges_Triangle_Icon.svg",
	"J27":         "J27_Square_Icon.svg",
}

// IconAsset returns the icon file name for account, if it has one.
func IconAsset(account string) (string, bool) {
	name, ok := accountIcons[account]
	return name, ok
}

// Point is an (x, y) pair in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var (
	defaultIconGeometry = IconGeometry{Size: Point{15, 15}, Anchor: Point{7.5, 7.5}}
	largeIconGeometry   = IconGeometry{Size: Point{30, 30}, Anchor: Point{15, 15}}
	mediumIconGeometry  = IconGeometry{Size: Point{27.5, 27.5}, Anchor: Point{13.75, 13.75}}
)

// IconGeometry is the rendered size of a custom icon and the pixel anchored
// on the marker position.
type IconGeometry struct {
	Size   Point `json:"size"`
	Anchor Point `json:"anchor"`
}

// GeometryFor returns the icon geometry used for account. Crown, house and sun
// icons are drawn larger; the triangle and square slightly larger.
func GeometryFor(account string) IconGeometry {
	switch account {
	case "Greene King", "Bespoke", "Aviva":
		return largeIconGeometry
	case "St George's", "J27":
		return mediumIconGeometry
	default:
		return defaultIconGeometry
	}
}

// IconResource is a renderable icon, typically a data URI.
type IconResource struct {
	URL string `json:"url"`
}

// IconResolver renders an account's icon in the given color.
// Implementations return ErrNoIcon for accounts without a custom icon.
type IconResolver interface {
	ResolveIcon(ctx context.Context, account string, color Color) (IconResource, error)
}

// CustomIcon is a resolved icon with its geometry.
type CustomIcon struct {
	IconResource
	IconGeometry
}

// MarkerSpec is the rendering-agnostic description of one map pin. Rating is
// nil when no metric was selected or the value was unreadable; Icon is nil for
// a plain colored pin.
type MarkerSpec struct {
	Geo           Geo         `json:"geo"`
	Color         Color       `json:"color"`
	Rating        *Rating     `json:"rating,omitempty"`
	Icon          *CustomIcon `json:"icon,omitempty"`
	Popup         []string    `json:"popup"`
	PopupMaxWidth int         `json:"popup_max_width"`
}

// PopupHTML joins the escaped popup lines with line breaks.
func (m MarkerSpec) PopupHTML() string {
	escaped := make([]string, len(m.Popup))
	for i, line := range m.Popup {
		escaped[i] = html.EscapeString(line)
	}
	return strings.Join(escaped, "<br>")
}

// PopupLines returns one "Name: Value" line per displayable field of r.
func PopupLines(r Record) []string {
	lines := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		if popupHidden[f.Name] {
			continue
		}
		lines = append(lines, f.Name+": "+f.Value)
	}
	return lines
}

// ResolveColor returns the marker color for r. Without a metric the default
// color is used. An unreadable metric value yields the indeterminate color and
// a nil rating; it never fails the caller.
func ResolveColor(table *BaselineTable, r Record, metric Metric, logger *slog.Logger) (Color, *Rating) {
	if metric == "" {
		return DefaultColor, nil
	}

	value, err := r.MetricValue(metric)
	if err != nil {
		logger.Warn("metric value not numeric",
			"account", r.Account,
			"location", r.Location,
			"metric", metric,
			"error", err,
		)
		return IndeterminateColor, nil
	}

	rating := table.Classify(metric, r.VenueType, r.ChargerType, value)
	return rating.Color(), &rating
}

// ResolveCustomIcon asks icons for the account's icon in color. It returns nil
// when the account has no icon, icons is nil, or rendering fails, so the
// caller falls back to a plain pin.
func ResolveCustomIcon(ctx context.Context, icons IconResolver, account string, color Color, logger *slog.Logger) *CustomIcon {
	if icons == nil {
		return nil
	}
	if _, ok := IconAsset(account); !ok {
		return nil
	}

	res, err := icons.ResolveIcon(ctx, account, color)
	if err != nil {
		if !errors.Is(err, ErrNoIcon) {
			logger.Warn("icon render failed, using plain marker",
				"account", account,
				"color", color,
				"error", err,
			)
		}
		return nil
	}
	if res.URL == "" {
		return nil
	}
	return &CustomIcon{IconResource: res, IconGeometry: GeometryFor(account)}
}

// BuildMarker maps a record to its marker specification for the given metric.
// It has no side effects beyond logging and the icon resolver call.
func BuildMarker(ctx context.Context, table *BaselineTable, icons IconResolver, r Record, metric Metric, logger *slog.Logger) MarkerSpec {
	color, rating := ResolveColor(table, r, metric, logger)
	return MarkerSpec{
		Geo:           r.Geo,
		Color:         color,
		Rating:        rating,
		Icon:          ResolveCustomIcon(ctx, icons, r.Account, color, logger),
		Popup:         PopupLines(r),
		PopupMaxWidth: PopupMaxWidth,
	}
}
