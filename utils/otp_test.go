package utils

import (
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)

		n, err := strconv.Atoi(otp)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestHashOTPRoundTrip(t *testing.T) {
	otp, err := GenerateOTP()
	require.NoError(t, err)

	hash, err := HashOTP(otp)
	require.NoError(t, err)
	assert.NotEqual(t, otp, hash)

	assert.True(t, CheckOTP(hash, otp))
	assert.False(t, CheckOTP(hash, "000000"))
}

func TestHashOTPSaltsPerRecord(t *testing.T) {
	first, err := HashOTP("123456")
	require.NoError(t, err)
	second, err := HashOTP("123456")
	require.NoError(t, err)

	// Same code, different salt, different hash; both still verify
	assert.NotEqual(t, first, second)
	assert.True(t, CheckOTP(first, "123456"))
	assert.True(t, CheckOTP(second, "123456"))
}

func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestValidateVerifyAttemptsBudget(t *testing.T) {
	rdb := testRedisClient(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, ValidateVerifyAttempts("40712345678", rdb))
	}
	assert.ErrorIs(t, ValidateVerifyAttempts("40712345678", rdb), ErrTooManyAttempts)

	// Other phones keep their own counter
	assert.NoError(t, ValidateVerifyAttempts("15551234567", rdb))
}

func TestValidateVerifyAttemptsWindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	for i := 0; i < 6; i++ {
		ValidateVerifyAttempts("40712345678", rdb)
	}
	require.ErrorIs(t, ValidateVerifyAttempts("40712345678", rdb), ErrTooManyAttempts)

	mr.FastForward(61 * time.Minute)
	assert.NoError(t, ValidateVerifyAttempts("40712345678", rdb))
}

func TestVerifyAttemptLimiterCheck(t *testing.T) {
	limiter := &VerifyAttemptLimiter{Redis: testRedisClient(t)}

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Check("40712345678"))
	}
	assert.ErrorIs(t, limiter.Check("40712345678"), ErrTooManyAttempts)
}
