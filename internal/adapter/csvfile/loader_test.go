package csvfile

import (
	"context"
	"strings"
	"testing"

	"github.com/couchcryptid/ev-charger-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Fixture(t *testing.T) {
	result, err := LoadFile(context.Background(), "testdata/chargers.csv")
	require.NoError(t, err)

	assert.Equal(t, 6, result.Total)
	require.Len(t, result.Records, 5)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "line 7: latitude: missing")
	assert.Equal(t, 1, result.Rejected())

	t.Run("normalizes venue and charger", func(t *testing.T) {
		assert.Equal(t, domain.VenuePub, result.Records[0].VenueType)
		assert.Equal(t, domain.ChargerDC50, result.Records[1].ChargerType)
		assert.Equal(t, domain.VenueHubPlus, result.Records[4].VenueType)
		assert.Equal(t, domain.ChargerDC300, result.Records[4].ChargerType)
	})

	t.Run("strips utilisation percent", func(t *testing.T) {
		v, err := result.Records[0].MetricValue(domain.MetricEnergyUtilisation)
		require.NoError(t, err)
		assert.InDelta(t, 3.2, v, 1e-9)
	})

	t.Run("keeps non-numeric metric text", func(t *testing.T) {
		assert.Equal(t, "n/a", result.Records[2].Metrics[domain.MetricSessions])
		_, err := result.Records[2].MetricValue(domain.MetricSessions)
		assert.Error(t, err)
	})

	t.Run("normalizes whole port counts", func(t *testing.T) {
		assert.Equal(t, "6", result.Records[2].Ports)
	})

	t.Run("position", func(t *testing.T) {
		assert.Equal(t, domain.Geo{Lat: 52.2429, Lon: 0.7116}, result.Records[0].Geo)
	})

	t.Run("fields in column order without index column", func(t *testing.T) {
		names := make([]string, len(result.Records[0].Fields))
		for i, f := range result.Records[0].Fields {
			names[i] = f.Name
		}
		assert.Equal(t, []string{
			"Account", "Location", "Postcode", "Venue Type", "Charger Type", "Number of Ports",
			"Latitude", "Longitude", "Sessions/port/day", "Energy Throughput/port/day (kWh)",
			"Energy Utilisation (%)", "Net Rev Exc. VAT/port/day",
		}, names)
		assert.Equal(t, domain.Field{Name: "Energy Utilisation (%)", Value: "3.2"}, result.Records[0].Fields[10])
		assert.Equal(t, domain.Field{Name: "Charger Type", Value: "DC50"}, result.Records[1].Fields[4])
	})
}

func TestLoad_MissingRequiredColumns(t *testing.T) {
	_, err := Load(context.Background(), strings.NewReader("Account,Location,Latitude\nNT,Bath,51.3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Venue Type")
	assert.Contains(t, err.Error(), "Longitude")
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(context.Background(), strings.NewReader(""))
	require.Error(t, err)
}

func TestLoad_TrimsHeadersAndSkipsBlankRows(t *testing.T) {
	data := " Account , Location,Venue Type,Charger Type,Number of Ports,Latitude,Longitude\n" +
		"NT,Bath,Heritage,AC,2,51.38,-2.36\n" +
		",,,,,,\n"

	result, err := Load(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "NT", result.Records[0].Account)
	assert.Empty(t, result.Records[0].Metrics)
}

func TestLoad_RejectsOutOfRangeCoordinates(t *testing.T) {
	data := "Account,Location,Venue Type,Charger Type,Number of Ports,Latitude,Longitude\n" +
		"NT,Bath,Heritage,AC,2,151.38,-2.36\n" +
		"NT,Wells,Heritage,AC,2,51.2,east\n"

	result, err := Load(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "out of range")
	assert.Contains(t, result.Errors[1], "invalid value")
}

func TestLoad_LineNumbersAfterMultilineField(t *testing.T) {
	data := "Account,Location,Venue Type,Charger Type,Number of Ports,Latitude,Longitude\n" +
		"NT,\"Bath\nAssembly Rooms\",Heritage,AC,2,51.38,-2.36\n" +
		"NT,Wells,Heritage,AC,2,,-2.65\n"

	result, err := Load(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Bath\nAssembly Rooms", result.Records[0].Location)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "line 4: latitude: missing", result.Errors[0])
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFile(ctx, "testdata/chargers.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizePorts(t *testing.T) {
	assert.Equal(t, "4", normalizePorts("4.0"))
	assert.Equal(t, "4", normalizePorts("4"))
	assert.Equal(t, "2.5", normalizePorts("2.5"))
	assert.Equal(t, "many", normalizePorts("many"))
}
