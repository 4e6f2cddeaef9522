package domain

import "errors"

var (
	// ErrUnknownMetric is returned when a metric name is not one of Metrics.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrNoIcon is returned by icon resolvers for accounts without a custom icon.
	ErrNoIcon = errors.New("no custom icon for account")
)
