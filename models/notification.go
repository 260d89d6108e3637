package models

import "time"

// Dispatch event types published to the notification channel.
const (
	EventOfferExtended  = "offer_extended"
	EventOfferReleased  = "offer_released"
	EventAssignment     = "assignment_confirmed"
	EventDispatchFailed = "dispatch_failed"
	EventDispatchCancel = "dispatch_cancelled"
)

// DispatchEvent is the payload delivered to contractor devices and the
// customer-facing UI as a session progresses. Transport is pluggable; the
// engine only emits these values.
type DispatchEvent struct {
	Type         string    `json:"type"`
	SessionID    string    `json:"sessionId"`
	ServiceID    string    `json:"serviceId,omitempty"`
	UserID       string    `json:"userId,omitempty"`
	ContractorID string    `json:"contractorId,omitempty"`
	DeviceToken  string    `json:"deviceToken,omitempty"`
	Outcome      string    `json:"outcome,omitempty"`
	Price        float64   `json:"price,omitempty"`
	EtaMinutes   int       `json:"etaMinutes,omitempty"`
	At           time.Time `json:"at"`
}
