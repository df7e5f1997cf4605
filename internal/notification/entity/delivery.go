package entity

import "time"

type DeliveryStatus int16

const (
	DeliveryStatusUnknown DeliveryStatus = iota
	DeliveryStatusQueued
	DeliveryStatusSent
	DeliveryStatusFailed
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusQueued:
		return "Queued"
	case DeliveryStatusSent:
		return "Sent"
	case DeliveryStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

type TriggerKey string

const TriggerKeyEmailVerify TriggerKey = "email_verify"

// EmailDelivery is one send attempt. Rows are kept for auditing, status moves
// Queued → Sent or Queued → Failed.
type EmailDelivery struct {
	ID         int64
	UserID     int64
	Email      string
	TriggerKey TriggerKey
	Status     DeliveryStatus
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type UpdateDelivery struct {
	ID     int64
	Status DeliveryStatus
	Error  string
}
