package domain

import (
	"io"
	"log/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testRecord builds a record the way the CSV loader does, with Fields in
// export column order.
func testRecord(account, location string, venue VenueType, charger ChargerType, ports string, sessions string) Record {
	r := Record{
		Account:     account,
		Location:    location,
		Postcode:    "AB1 2CD",
		VenueType:   venue,
		ChargerType: charger,
		Ports:       ports,
		Geo:         Geo{Lat: 51.5, Lon: -0.12},
		Metrics:     map[Metric]string{MetricSessions: sessions},
	}
	r.Fields = []Field{
		{ColumnAccount, account},
		{ColumnLocation, location},
		{ColumnPostcode, r.Postcode},
		{ColumnVenueType, string(venue)},
		{ColumnChargerType, string(charger)},
		{ColumnPorts, ports},
		{ColumnLatitude, "51.5"},
		{ColumnLongitude, "-0.12"},
		{string(MetricSessions), sessions},
	}
	return r
}
