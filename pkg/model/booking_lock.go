package model

import "time"

// BookingLock is an advisory lock keyed by slot coordinates. A unique
// index on _id plus a TTL index on expires_at makes acquisition an
// atomic insert that cannot leak forever.
type BookingLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}
