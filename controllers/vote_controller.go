// controllers/vote_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/votline/votline_backend/models"
	"github.com/votline/votline_backend/utils"
)

const (
	otpTTL           = 10 * time.Minute
	rateWindow       = 1 * time.Hour
	maxOTPsPerWindow = 3
)

// VerificationStore is the slice of verification persistence the voting
// handlers need.
type VerificationStore interface {
	CountRecentByPhone(ctx context.Context, phone string, since time.Time) (int64, error)
	Create(ctx context.Context, rec *models.VerificationRecord) error
	FindLatestValid(ctx context.Context, phone, participantID string, now time.Time) (*models.VerificationRecord, error)
	DeleteAll(ctx context.Context) error
}

// VoteStore persists the one-per-phone ballots.
type VoteStore interface {
	Exists(ctx context.Context, phone string) (bool, error)
	Commit(ctx context.Context, phone, participantID string, verificationID primitive.ObjectID) (alreadyVoted bool, err error)
	DeleteAll(ctx context.Context) error
}

// OTPSender delivers a plaintext code to a phone number.
type OTPSender interface {
	SendOTP(phone, otp string) error
}

// AuthorizeFunc decides whether a reset credential is acceptable. The
// default compares against the pre-shared owner password; deployments
// wanting a stronger scheme swap the function.
type AuthorizeFunc func(credential string) bool

// VerifyThrottle caps code guessing per phone. Check records one attempt and
// returns utils.ErrTooManyAttempts once the phone's budget is exhausted.
type VerifyThrottle interface {
	Check(phone string) error
}

// VoteController handles OTP issuance, verification and the vote commit
type VoteController struct {
	verifications VerificationStore
	votes         VoteStore
	sender        OTPSender
	throttle      VerifyThrottle
	authorize     AuthorizeFunc
	logger        *log.Logger
}

// NewVoteController creates a new vote controller. The owner password is
// resolved once here, at startup. A nil throttle disables attempt counting.
func NewVoteController(verifications VerificationStore, votes VoteStore, sender OTPSender, throttle VerifyThrottle) *VoteController {
	ownerPassword := os.Getenv("OWNER_PASSWORD")
	if ownerPassword == "" {
		log.Println("Warning: OWNER_PASSWORD not set; resetVotes is disabled")
	}

	return &VoteController{
		verifications: verifications,
		votes:         votes,
		sender:        sender,
		throttle:      throttle,
		authorize: func(credential string) bool {
			return ownerPassword != "" && credential == ownerPassword
		},
		logger: log.New(os.Stdout, "[VOTE] ", log.LstdFlags),
	}
}

// RequestOTP handles POST /requestOtp
func (vc *VoteController) RequestOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RequestOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.VoteResponse{Error: models.ErrMissingParams})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.VoteResponse{Error: models.ErrMissingParams})
	}

	phone := utils.NormalizePhone(req.Phone)

	// The vote is final; no new codes once a ballot exists
	voted, err := vc.votes.Exists(ctx, phone)
	if err != nil {
		return vc.serverError(c, "requestOtp", err)
	}
	if voted {
		return c.JSON(http.StatusOK, models.VoteResponse{AlreadyVoted: true})
	}

	// The window counts records already written; this check itself adds
	// nothing, so three existing records block the fourth issuance.
	count, err := vc.verifications.CountRecentByPhone(ctx, phone, time.Now().Add(-rateWindow))
	if err != nil {
		return vc.serverError(c, "requestOtp", err)
	}
	if count >= maxOTPsPerWindow {
		return c.JSON(http.StatusOK, models.VoteResponse{Error: models.ErrRateLimit})
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return vc.serverError(c, "requestOtp", err)
	}
	otpHash, err := utils.HashOTP(otp)
	if err != nil {
		return vc.serverError(c, "requestOtp", err)
	}

	now := time.Now()
	rec := &models.VerificationRecord{
		Phone:         phone,
		ParticipantID: req.ParticipantID,
		OTPHash:       otpHash,
		ExpiresAt:     now.Add(otpTTL),
		Used:          false,
		CreatedAt:     now,
	}
	if err := vc.verifications.Create(ctx, rec); err != nil {
		return vc.serverError(c, "requestOtp", err)
	}

	// Delivery is best effort; the request already succeeded once the
	// record is stored. Without a gateway the code goes to the logs, which
	// is the side-channel test deployments use.
	if vc.sender != nil {
		if err := vc.sender.SendOTP(req.Phone, otp); err != nil {
			vc.logger.Printf("SMS send error for %s: %v", phone, err)
		}
	} else {
		vc.logger.Printf("OTP for %s: %s", phone, otp)
	}

	return c.JSON(http.StatusOK, models.VoteResponse{OK: true})
}

// VerifyOTP handles POST /verifyOtp
func (vc *VoteController) VerifyOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.VoteResponse{Error: models.ErrMissingParams})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.VoteResponse{Error: models.ErrMissingParams})
	}

	phone := utils.NormalizePhone(req.Phone)

	rec, err := vc.verifications.FindLatestValid(ctx, phone, req.ParticipantID, time.Now())
	if err != nil {
		return vc.serverError(c, "verifyOtp", err)
	}
	// Never requested, expired, consumed and wrong participant all look the
	// same from outside; the merged answer leaks nothing.
	if rec == nil {
		return c.JSON(http.StatusOK, models.VoteResponse{Error: models.ErrInvalidOrExpired})
	}

	// Guessing throttle. A rejected attempt answers exactly like a bad
	// code; counter failures must not block voting.
	if vc.throttle != nil {
		if err := vc.throttle.Check(phone); err != nil {
			if errors.Is(err, utils.ErrTooManyAttempts) {
				return c.JSON(http.StatusOK, models.VoteResponse{Error: models.ErrInvalidOrExpired})
			}
			vc.logger.Printf("verify attempt counter error for %s: %v", phone, err)
		}
	}

	if !utils.CheckOTP(rec.OTPHash, req.OTP) {
		return c.JSON(http.StatusOK, models.VoteResponse{Error: models.ErrInvalidOrExpired})
	}

	alreadyVoted, err := vc.votes.Commit(ctx, phone, req.ParticipantID, rec.ID)
	if err != nil {
		return vc.serverError(c, "verifyOtp", err)
	}
	if alreadyVoted {
		return c.JSON(http.StatusOK, models.VoteResponse{AlreadyVoted: true})
	}

	return c.JSON(http.StatusOK, models.VoteResponse{OK: true})
}

// ResetVotes handles POST /resetVotes
func (vc *VoteController) ResetVotes(c echo.Context) error {
	// Unbounded collections; allow the paged purge time to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var req models.ResetVotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusForbidden, models.VoteResponse{Error: models.ErrForbidden})
	}
	if !vc.authorize(req.OwnerPassword) {
		return c.JSON(http.StatusForbidden, models.VoteResponse{Error: models.ErrForbidden})
	}

	if err := vc.votes.DeleteAll(ctx); err != nil {
		return vc.serverError(c, "resetVotes", err)
	}
	if err := vc.verifications.DeleteAll(ctx); err != nil {
		return vc.serverError(c, "resetVotes", err)
	}

	vc.logger.Println("all votes and verifications removed")
	return c.JSON(http.StatusOK, models.VoteResponse{
		OK:      true,
		Message: "All votes and verifications removed.",
	})
}

func (vc *VoteController) serverError(c echo.Context, op string, err error) error {
	vc.logger.Printf("%s error: %v", op, err)
	return c.JSON(http.StatusInternalServerError, models.VoteResponse{
		Error:   models.ErrServerError,
		Message: err.Error(),
	})
}
