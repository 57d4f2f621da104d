package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VerificationRecord is the stored proof of one OTP issuance. A phone may
// accumulate several of these (one per request); only the most recent
// unused, unexpired record is eligible for verification.
type VerificationRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Phone         string             `bson:"phone" json:"phone"`
	ParticipantID string             `bson:"participantId" json:"participantId"`
	OTPHash       string             `bson:"otpHash" json:"-"`
	ExpiresAt     time.Time          `bson:"expiresAt" json:"expiresAt"`
	Used          bool               `bson:"used" json:"used"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
