package dto

import (
	"time"
)

// Topic names for registration events
const (
	TopicContestantRegistered = "registration.contestant-registered"
	TopicContestantPaid       = "registration.contestant-paid"
)

// Event type values carried in the payload
const (
	EventTypeContestantRegistered = "contestant.registered"
	EventTypeContestantPaid       = "contestant.paid"
)

// ContestantRegisteredEvent is published once a contestant row is stored
type ContestantRegisteredEvent struct {
	EventType       string    `json:"event_type"`
	ContestantID    string    `json:"contestant_id"`
	CompetitionID   string    `json:"competition_id"`
	CompetitionName string    `json:"competition_name"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	BeltColor       string    `json:"belt_color"`
	Age             int       `json:"age"`
	Kata            bool      `json:"kata"`
	Kumite          bool      `json:"kumite"`
	Timestamp       time.Time `json:"timestamp"`
}

// Key returns the Kafka message key for partitioning
func (e *ContestantRegisteredEvent) Key() string {
	return e.ContestantID
}

// Topic returns the topic the event belongs to
func (e *ContestantRegisteredEvent) Topic() string {
	return TopicContestantRegistered
}

// ContestantPaidEvent is published on the first unpaid to paid transition
type ContestantPaidEvent struct {
	EventType      string    `json:"event_type"`
	ContestantID   string    `json:"contestant_id"`
	CompetitionID  string    `json:"competition_id"`
	GatewayEventID string    `json:"gateway_event_id"`
	Gateway        string    `json:"gateway"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	PaidAt         time.Time `json:"paid_at"`
	Timestamp      time.Time `json:"timestamp"`
}

// Key returns the Kafka message key for partitioning
func (e *ContestantPaidEvent) Key() string {
	return e.ContestantID
}

// Topic returns the topic the event belongs to
func (e *ContestantPaidEvent) Topic() string {
	return TopicContestantPaid
}
