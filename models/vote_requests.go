// models/vote_requests.go

package models

// RequestOTPRequest is the payload for POST /requestOtp
type RequestOTPRequest struct {
	Phone         string `json:"phone" validate:"required"`
	ParticipantID string `json:"participantId" validate:"required"`
}

// VerifyOTPRequest is the payload for POST /verifyOtp
type VerifyOTPRequest struct {
	Phone         string `json:"phone" validate:"required"`
	ParticipantID string `json:"participantId" validate:"required"`
	OTP           string `json:"otp" validate:"required"`
}

// ResetVotesRequest is the payload for POST /resetVotes
type ResetVotesRequest struct {
	OwnerPassword string `json:"ownerPassword"`
}
