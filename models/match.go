package models

import "time"

// MatchRequest describes what is being dispatched. It is created once per
// booking attempt and never mutated.
type MatchRequest struct {
	ServiceID        string    `json:"serviceId"`
	UserID           string    `json:"userId,omitempty"`
	CustomerLocation GeoPoint  `json:"customerLocation"`
	RequestedTime    time.Time `json:"requestedTime"`
	IsUrgent         bool      `json:"isUrgent"`
	IsPremium        bool      `json:"isPremium"`
}

// MatchScore is a contractor snapshot paired with the computed fitness for a
// single request. Produced fresh per ranking; never persisted.
type MatchScore struct {
	Contractor ContractorProfile `json:"contractor"`
	DistanceKm float64           `json:"distanceKm"`
	EtaMinutes int               `json:"etaMinutes"`
	Score      float64           `json:"score"`
}
