package domain

import "time"

// TurnRecord is the audit entry written for every completed turn.
type TurnRecord struct {
	SessionID string
	UserID    int64
	Action    Action
	Input     string
	Reply     string
	Timestamp time.Time
}
