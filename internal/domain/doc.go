// Package domain models EV charger installations and rates their performance
// against venue- and charger-specific baselines.
//
// # Data Source
//
// Records come from the key-accounts map export, one row per charger site.
// Columns used by the service:
//
//	Account, Location, Postcode        display only
//	Venue Type, Charger Type,          categorical filter dimensions
//	Number of Ports
//	Latitude, Longitude                marker position, both required
//	Sessions/port/day                  performance metrics
//	Energy Throughput/port/day (kWh)
//	Energy Utilisation (%)
//	Net Rev Exc. VAT/port/day
//
// Any other named column is kept for popups. Exports carry spreadsheet
// index columns headed "Unnamed: N"; those are dropped on load.
//
// # Normalization
//
// Venue types are trimmed and aliases canonicalized ("Hub +" becomes "Hub+").
// Charger types have every space removed ("DC 150" becomes "DC150").
// Utilisation is exported as a percent string ("12.3%") and stored without
// the sign. Metric cells are otherwise kept as text and parsed on demand, so
// a malformed cell only affects the marker it belongs to.
//
// # Ratings
//
// Each (metric, venue type, charger type) has a band [0, b1, b2, b3]:
//
//	value >= b3  excellent  green
//	value >= b2  good       orange
//	value >= b1  bad        red
//	otherwise    critical   darkred
//
// Combinations outside the baseline table rate as critical. Markers without
// a selected metric are blue; markers whose metric value cannot be parsed are
// gray.
//
// # Icons
//
// Key accounts have an SVG icon recolored to the marker color. Accounts
// without an icon, and icons that fail to render, fall back to a plain pin.
package domain
