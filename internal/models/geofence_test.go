package models

import (
	"testing"
	"time"

	"fleettrack/internal/utils"
)

// 2024-01-01 was a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2024, 1, 1, hour, min, 0, 0, time.UTC)
}

func tuesday(hour, min int) time.Time {
	return time.Date(2024, 1, 2, hour, min, 0, 0, time.UTC)
}

func TestScheduleDisabled(t *testing.T) {
	schedule := GeofenceSchedule{Enabled: false}

	if !schedule.IsActiveAt(monday(3, 0)) {
		t.Error("disabled schedule should always be active")
	}
}

func TestScheduleDayWindow(t *testing.T) {
	schedule := GeofenceSchedule{
		Enabled: true,
		Days:    []time.Weekday{time.Monday},
		Start:   "09:00",
		End:     "17:00",
	}

	tests := []struct {
		name   string
		at     time.Time
		active bool
	}{
		{"monday mid-window", monday(10, 0), true},
		{"monday at start", monday(9, 0), true},
		{"monday before start", monday(8, 59), false},
		{"monday at end is excluded", monday(17, 0), false},
		{"monday after end", monday(20, 0), false},
		{"tuesday mid-window", tuesday(10, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.IsActiveAt(tt.at); got != tt.active {
				t.Errorf("IsActiveAt(%v) = %v, want %v", tt.at, got, tt.active)
			}
		})
	}
}

func TestScheduleOvernightWrap(t *testing.T) {
	schedule := GeofenceSchedule{
		Enabled: true,
		Days:    []time.Weekday{time.Monday},
		Start:   "22:00",
		End:     "06:00",
	}

	tests := []struct {
		name   string
		at     time.Time
		active bool
	}{
		{"late evening", monday(23, 0), true},
		{"early morning", monday(3, 0), true},
		{"just before dawn cutoff", monday(5, 59), true},
		{"at dawn cutoff", monday(6, 0), false},
		{"midday", monday(12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.IsActiveAt(tt.at); got != tt.active {
				t.Errorf("IsActiveAt(%v) = %v, want %v", tt.at, got, tt.active)
			}
		})
	}
}

func TestScheduleUnparsableWindowFailsOpen(t *testing.T) {
	schedule := GeofenceSchedule{
		Enabled: true,
		Days:    []time.Weekday{time.Monday},
		Start:   "not-a-clock",
		End:     "17:00",
	}

	if !schedule.IsActiveAt(monday(3, 0)) {
		t.Error("unparsable window should not suppress alerts")
	}
}

func TestGeofenceContains(t *testing.T) {
	circle := &Geofence{
		Type:         GeofenceTypeCircle,
		CenterLat:    19.4326,
		CenterLng:    -99.1332,
		RadiusMeters: 500,
	}

	if !circle.Contains(utils.Point{Lat: 19.4326, Lng: -99.1332}) {
		t.Error("circle should contain its center")
	}
	if circle.Contains(utils.Point{Lat: 19.5, Lng: -99.1332}) {
		t.Error("circle should not contain a point kilometers away")
	}

	polygon := &Geofence{
		Type: GeofenceTypePolygon,
		Vertices: []utils.Point{
			{Lat: 19.42, Lng: -99.14},
			{Lat: 19.44, Lng: -99.14},
			{Lat: 19.44, Lng: -99.12},
			{Lat: 19.42, Lng: -99.12},
		},
	}

	if !polygon.Contains(utils.Point{Lat: 19.43, Lng: -99.13}) {
		t.Error("polygon should contain its centroid")
	}
	if polygon.Contains(utils.Point{Lat: 19.5, Lng: -99.13}) {
		t.Error("polygon should not contain a point outside the ring")
	}
}

func TestDeviceDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		device Device
		want   string
	}{
		{"alias wins", Device{Name: "Delivery Van", Plate: "ABC-123", IMEI: "8690001"}, "Delivery Van"},
		{"plate fallback", Device{Plate: "ABC-123", IMEI: "8690001"}, "ABC-123"},
		{"imei fallback", Device{IMEI: "8690001"}, "8690001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
