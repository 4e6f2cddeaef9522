package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type iconCall struct {
	account string
	color   Color
}

type stubIcons struct {
	calls []iconCall
	err   error
}

func (s *stubIcons) ResolveIcon(_ context.Context, account string, color Color) (IconResource, error) {
	s.calls = append(s.calls, iconCall{account, color})
	if s.err != nil {
		return IconResource{}, s.err
	}
	return IconResource{URL: "data:image/svg+xml;base64,PHN2Zy8+"}, nil
}

func TestBuildMarker_NoMetricIsBlue(t *testing.T) {
	r := testRecord("UnknownCo", "Somewhere", VenuePub, ChargerAC, "2", "0.5")
	m := BuildMarker(context.Background(), DefaultBaselines(), &stubIcons{}, r, "", discardLogger())

	assert.Equal(t, ColorBlue, m.Color)
	assert.Nil(t, m.Rating)
	assert.Nil(t, m.Icon)
	assert.Equal(t, r.Geo, m.Geo)
	assert.Equal(t, PopupMaxWidth, m.PopupMaxWidth)
}

func TestBuildMarker_RatedColor(t *testing.T) {
	tests := []struct {
		sessions string
		color    Color
		rating   Rating
	}{
		{"0.45", ColorGreen, RatingExcellent},
		{"0.3", ColorOrange, RatingGood},
		{"0.15", ColorRed, RatingBad},
		{"0.1", ColorDarkRed, RatingCritical},
	}
	for _, tt := range tests {
		t.Run(tt.sessions, func(t *testing.T) {
			r := testRecord("UnknownCo", "Somewhere", VenuePub, ChargerAC, "2", tt.sessions)
			m := BuildMarker(context.Background(), DefaultBaselines(), nil, r, MetricSessions, discardLogger())

			assert.Equal(t, tt.color, m.Color)
			require.NotNil(t, m.Rating)
			assert.Equal(t, tt.rating, *m.Rating)
		})
	}
}

func TestBuildMarker_NonNumericMetricIsGray(t *testing.T) {
	for _, raw := range []string{"n/a", "", "twelve", "1.2.3"} {
		r := testRecord("UnknownCo", "Somewhere", VenuePub, ChargerAC, "2", raw)

		assert.NotPanics(t, func() {
			m := BuildMarker(context.Background(), DefaultBaselines(), nil, r, MetricSessions, discardLogger())
			assert.Equal(t, ColorGray, m.Color)
			assert.Nil(t, m.Rating)
		})
	}
}

func TestBuildMarker_MissingMetricColumnIsGray(t *testing.T) {
	r := testRecord("UnknownCo", "Somewhere", VenuePub, ChargerAC, "2", "0.5")
	m := BuildMarker(context.Background(), DefaultBaselines(), nil, r, MetricNetRevenue, discardLogger())
	assert.Equal(t, ColorGray, m.Color)
}

func TestBuildMarker_UnknownVenueIsDarkRed(t *testing.T) {
	r := testRecord("UnknownCo", "Depot", VenueType("Depot"), ChargerAC, "2", "100")
	m := BuildMarker(context.Background(), DefaultBaselines(), nil, r, MetricSessions, discardLogger())
	assert.Equal(t, ColorDarkRed, m.Color)
}

func TestBuildMarker_GreeneKingLargeIcon(t *testing.T) {
	icons := &stubIcons{}
	r := testRecord("Greene King", "The Crown", VenuePub, ChargerAC, "2", "0.45")
	m := BuildMarker(context.Background(), DefaultBaselines(), icons, r, MetricSessions, discardLogger())

	require.Len(t, icons.calls, 1)
	assert.Equal(t, iconCall{"Greene King", ColorGreen}, icons.calls[0])
	require.NotNil(t, m.Icon)
	assert.Equal(t, Point{30, 30}, m.Icon.Size)
	assert.Equal(t, Point{15, 15}, m.Icon.Anchor)
	assert.NotEmpty(t, m.Icon.URL)
}

func TestBuildMarker_UnknownAccountPlainPin(t *testing.T) {
	icons := &stubIcons{}
	r := testRecord("UnknownCo", "Somewhere", VenuePub, ChargerAC, "2", "0.45")
	m := BuildMarker(context.Background(), DefaultBaselines(), icons, r, MetricSessions, discardLogger())

	assert.Empty(t, icons.calls)
	assert.Nil(t, m.Icon)
	assert.Equal(t, ColorGreen, m.Color)
}

func TestBuildMarker_IconFailureFallsBack(t *testing.T) {
	icons := &stubIcons{err: errors.New("open NT_Acorn_Icon.svg: no such file")}
	r := testRecord("NT", "Stourhead", VenueHeritage, ChargerAC, "2", "0.1")

	m := BuildMarker(context.Background(), DefaultBaselines(), icons, r, MetricSessions, discardLogger())

	assert.Len(t, icons.calls, 1)
	assert.Nil(t, m.Icon)
	assert.Equal(t, ColorDarkRed, m.Color)
}

func TestGeometryFor(t *testing.T) {
	tests := []struct {
		account string
		want    IconGeometry
	}{
		{"Greene King", IconGeometry{Size: Point{30, 30}, Anchor: Point{15, 15}}},
		{"Bespoke", IconGeometry{Size: Point{30, 30}, Anchor: Point{15, 15}}},
		{"Aviva", IconGeometry{Size: Point{30, 30}, Anchor: Point{15, 15}}},
		{"St George's", IconGeometry{Size: Point{27.5, 27.5}, Anchor: Point{13.75, 13.75}}},
		{"J27", IconGeometry{Size: Point{27.5, 27.5}, Anchor: Point{13.75, 13.75}}},
		{"NT", IconGeometry{Size: Point{15, 15}, Anchor: Point{7.5, 7.5}}},
		{"Merlin", IconGeometry{Size: Point{15, 15}, Anchor: Point{7.5, 7.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.account, func(t *testing.T) {
			assert.Equal(t, tt.want, GeometryFor(tt.account))
		})
	}
}

func TestPopupLines_HidesPositionAndPostcode(t *testing.T) {
	r := testRecord("NT", "Stourhead", VenueHeritage, ChargerAC, "2", "0.4")

	assert.Equal(t, []string{
		"Account: NT",
		"Location: Stourhead",
		"Venue Type: Heritage",
		"Charger Type: AC",
		"Number of Ports: 2",
		"Sessions/port/day: 0.4",
	}, PopupLines(r))
}

func TestMarkerSpec_PopupHTML(t *testing.T) {
	m := MarkerSpec{Popup: []string{"Account: St George's", "Location: A & B"}}
	assert.Equal(t, "Account: St George&#39;s<br>Location: A &amp; B", m.PopupHTML())
}
