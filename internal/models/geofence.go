package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/utils"
)

type GeofenceType string

const (
	GeofenceTypeCircle  GeofenceType = "circle"
	GeofenceTypePolygon GeofenceType = "polygon"
)

type Geofence struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeviceID     primitive.ObjectID `json:"device_id" bson:"device_id" validate:"required"`
	CustomerID   primitive.ObjectID `json:"customer_id" bson:"customer_id" validate:"required"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Type         GeofenceType       `json:"type" bson:"type" validate:"required"`
	Icon         string             `json:"icon" bson:"icon"`
	Color        string             `json:"color" bson:"color"`
	CenterLat    float64            `json:"center_lat" bson:"center_lat"`
	CenterLng    float64            `json:"center_lng" bson:"center_lng"`
	RadiusMeters float64            `json:"radius_meters" bson:"radius_meters"`
	Vertices     []utils.Point      `json:"vertices" bson:"vertices"`
	AlertOnEnter bool               `json:"alert_on_enter" bson:"alert_on_enter"`
	AlertOnExit  bool               `json:"alert_on_exit" bson:"alert_on_exit"`
	Schedule     GeofenceSchedule   `json:"schedule" bson:"schedule"`
	IsActive     bool               `json:"is_active" bson:"is_active" default:"true"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// Contains reports whether the point lies within the geofence geometry.
func (g *Geofence) Contains(point utils.Point) bool {
	switch g.Type {
	case GeofenceTypeCircle:
		return utils.IsPointInCircle(point, utils.Point{Lat: g.CenterLat, Lng: g.CenterLng}, g.RadiusMeters)
	case GeofenceTypePolygon:
		return utils.IsPointInPolygon(point, utils.Polygon(g.Vertices))
	}
	return false
}

// GeofenceSchedule restricts alerting to a wall-clock window on selected
// weekdays. A disabled schedule never gates anything.
type GeofenceSchedule struct {
	Enabled bool           `json:"enabled" bson:"enabled"`
	Days    []time.Weekday `json:"days" bson:"days"`
	Start   string         `json:"start" bson:"start"` // "15:04"
	End     string         `json:"end" bson:"end"`
}

// IsActiveAt evaluates the window against t's local wall clock. The window is
// half-open [start, end); End at or before Start wraps past midnight.
func (s *GeofenceSchedule) IsActiveAt(t time.Time) bool {
	if !s.Enabled {
		return true
	}

	dayMatch := false
	for _, day := range s.Days {
		if t.Weekday() == day {
			dayMatch = true
			break
		}
	}
	if !dayMatch {
		return false
	}

	start, err := utils.ParseClock(s.Start)
	if err != nil {
		return true
	}
	end, err := utils.ParseClock(s.End)
	if err != nil {
		return true
	}

	now := utils.MinutesOfDay(t)
	if end <= start {
		return now >= start || now < end
	}
	return now >= start && now < end
}
