// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
)

// otpHashCost matches the cost the stored hashes were minted with. With a
// 10^6 code space the real protection is the per-record salt plus the short
// expiry, not the cost factor.
const otpHashCost = 10

// ErrTooManyAttempts is returned once a phone exhausts its verification
// attempts for the hour.
var ErrTooManyAttempts = errors.New("too many verification attempts")

// GenerateOTP returns a uniformly random 6-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// HashOTP produces a salted one-way hash of the code.
func HashOTP(otp string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(otp), otpHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckOTP reports whether the submitted code matches the stored hash.
func CheckOTP(hash, otp string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(otp)) == nil
}

// ValidateVerifyAttempts counts verification attempts per phone so callers
// can cut off code guessing. Limited to 5 attempts per hour; returns
// ErrTooManyAttempts once the budget is spent.
func ValidateVerifyAttempts(phone string, rdb *redis.Client) error {
	key := "verify_attempts:" + phone
	attempts, err := rdb.Incr(context.Background(), key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		rdb.Expire(context.Background(), key, 1*time.Hour)
	}

	if attempts > 5 {
		return ErrTooManyAttempts
	}

	return nil
}

// VerifyAttemptLimiter is the Redis-backed attempt throttle the vote
// controller consumes.
type VerifyAttemptLimiter struct {
	Redis *redis.Client
}

// Check records one verification attempt for the phone.
func (l *VerifyAttemptLimiter) Check(phone string) error {
	return ValidateVerifyAttempts(phone, l.Redis)
}
