package models

import (
	"math"
	"time"
)

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lng returns the longitude, or 0 when the point is malformed.
func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

// Lat returns the latitude, or 0 when the point is malformed.
func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Valid reports whether the point carries a well-formed [lng, lat] pair.
func (p GeoPoint) Valid() bool {
	if len(p.Coordinates) != 2 {
		return false
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	if math.IsNaN(lng) || math.IsNaN(lat) {
		return false
	}
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// TimeWindow is a bookable stretch of a contractor's working day,
// expressed in minutes from midnight.
type TimeWindow struct {
	Start  int  `bson:"start" json:"start"`
	End    int  `bson:"end" json:"end"`
	Booked bool `bson:"booked" json:"booked"`
}

// Covers reports whether the window is open at the given minute of day.
func (w TimeWindow) Covers(minuteOfDay int) bool {
	return !w.Booked && minuteOfDay >= w.Start && minuteOfDay < w.End
}

// ContractorProfile is a read snapshot of a contractor's dispatch-relevant
// state at ranking time. Outstanding offers and live job counts are owned by
// the assignment ledger, not by this snapshot.
type ContractorProfile struct {
	ID                string                  `bson:"id" json:"id"`
	Name              string                  `bson:"name" json:"name,omitempty"`
	LocationGeo       GeoPoint                `bson:"locationGeo" json:"locationGeo"`
	Rating            float64                 `bson:"rating" json:"rating"`                       // 0–5
	CompletedJobs     int                     `bson:"completedJobs" json:"completedJobs"`
	Certifications    []string                `bson:"certifications" json:"certifications,omitempty"`
	Specialties       []string                `bson:"specialties" json:"specialties,omitempty"`
	Availability      map[string][]TimeWindow `bson:"availability" json:"availability,omitempty"` // "2006-01-02" -> windows
	ResponseMinutes   float64                 `bson:"responseMinutes" json:"responseMinutes"`     // historical average
	AcceptanceRate    float64                 `bson:"acceptanceRate" json:"acceptanceRate"`       // 0–1
	CurrentJobs       int                     `bson:"currentJobs" json:"currentJobs"`
	MaxConcurrentJobs int                     `bson:"maxConcurrentJobs" json:"maxConcurrentJobs"`
	DeviceToken       string                  `bson:"deviceToken,omitempty" json:"-"`
	UpdatedAt         time.Time               `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// AvailableAt reports whether any open availability window covers the
// requested time on that date.
func (c ContractorProfile) AvailableAt(t time.Time) bool {
	windows, ok := c.Availability[t.Format("2006-01-02")]
	if !ok {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	for _, w := range windows {
		if w.Covers(minute) {
			return true
		}
	}
	return false
}

// HasCredential reports whether the contractor lists the given service in
// either certifications or specialties.
func (c ContractorProfile) HasCredential(serviceID string) (certified, specialised bool) {
	for _, cert := range c.Certifications {
		if cert == serviceID {
			certified = true
			break
		}
	}
	for _, sp := range c.Specialties {
		if sp == serviceID {
			specialised = true
			break
		}
	}
	return certified, specialised
}
