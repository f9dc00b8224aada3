package maps

import "context"

// Geocoder resolves coordinates into a human-readable address, used to
// enrich alert payloads. Best-effort: callers tolerate errors and a nil
// Geocoder.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}
