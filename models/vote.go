package models

import "time"

// VoteRecord is the single, final ballot cast by a phone. The normalized
// phone doubles as the document id, so a second ballot for the same phone
// cannot be inserted.
type VoteRecord struct {
	Phone         string    `bson:"_id" json:"phone"`
	ParticipantID string    `bson:"participantId" json:"participantId"`
	Timestamp     time.Time `bson:"timestamp" json:"timestamp"`
}
