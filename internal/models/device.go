package models

import "time"

type Device struct {
	ID          int        `json:"id"`
	CustomerID  int        `json:"customer_id"`
	Fingerprint string     `json:"fingerprint"`
	Label       string     `json:"label,omitempty"`
	FirstSeenTS time.Time  `json:"first_seen_ts"`
	LastSeenTS  *time.Time `json:"last_seen_ts,omitempty"`
}
