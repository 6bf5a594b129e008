package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ActivityKind enumerates the events recorded in the append-only activity log.
type ActivityKind string

const (
	ActivityRegistered             ActivityKind = "registered"
	ActivityLogin                  ActivityKind = "login"
	ActivityVerificationSent       ActivityKind = "verification-sent"
	ActivityVerificationFailed     ActivityKind = "verification-failed"
	ActivityVerificationSucceeded  ActivityKind = "verification-succeeded"
	ActivityPasswordResetRequested ActivityKind = "password-reset-requested"
	ActivityPasswordResetSucceeded ActivityKind = "password-reset-succeeded"
)

// Activity is a single append-only log entry tied to a Firebase UID.
type Activity struct {
	ID        bson.ObjectID  `bson:"_id,omitempty"`
	UID       string         `bson:"uid"`
	Kind      ActivityKind   `bson:"kind"`
	Metadata  map[string]any `bson:"metadata,omitempty"`
	Timestamp time.Time      `bson:"timestamp"`
}
