package uniqueness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"dqengine/internal/quality/uniqueness/mocks"
	"dqengine/pkg/platform/circuit"
	"dqengine/pkg/platform/sentinel"
)

func TestAllowed(t *testing.T) {
	for _, pair := range [][2]string{
		{"citizens", "national_id"},
		{"citizens", "phone_number"},
		{"citizens", "email"},
		{"businesses", "registration_number"},
		{"businesses", "email"},
	} {
		assert.True(t, Allowed(pair[0], pair[1]), "%v", pair)
	}
	for _, pair := range [][2]string{
		{"citizens", "password_hash"},
		{"businesses", "national_id"},
		{"users", "email"},
		{"citizens; DROP TABLE citizens", "email"},
		{"citizens", "email = email OR 1=1 --"},
	} {
		assert.False(t, Allowed(pair[0], pair[1]), "%v", pair)
	}
}

func TestCheckUnique(t *testing.T) {
	ctx := context.Background()

	t.Run("pairs outside the allow-list pass without a query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		querier := mocks.NewMockQuerier(ctrl)
		querier.EXPECT().Exists(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		res, err := NewChecker(querier, nil).CheckUnique(ctx, "citizens", "nickname", "x")
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("existing value is a duplicate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		querier := mocks.NewMockQuerier(ctrl)
		querier.EXPECT().Exists(gomock.Any(), "citizens", "national_id", "1234567890").Return(true, nil)

		res, err := NewChecker(querier, nil).CheckUnique(ctx, "citizens", "national_id", "1234567890")
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, DefaultIssue, res.Issue)
	})

	t.Run("absent value is unique", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		querier := mocks.NewMockQuerier(ctrl)
		querier.EXPECT().Exists(gomock.Any(), "businesses", "email", "a@b.sd").Return(false, nil)

		res, err := NewChecker(querier, nil).CheckUnique(ctx, "businesses", "email", "a@b.sd")
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("store failure propagates as unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		querier := mocks.NewMockQuerier(ctrl)
		cause := errors.New("i/o timeout")
		querier.EXPECT().Exists(gomock.Any(), "citizens", "email", "x").Return(false, cause)

		_, err := NewChecker(querier, nil).CheckUnique(ctx, "citizens", "email", "x")
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
		assert.ErrorIs(t, err, cause)
	})
}

func TestInMemoryIndex(t *testing.T) {
	idx := NewInMemoryIndex()
	idx.Add("citizens", "email", "a@b.sd")

	checker := NewChecker(idx, nil)
	res, err := checker.CheckUnique(context.Background(), "citizens", "email", "a@b.sd")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = checker.CheckUnique(context.Background(), "businesses", "email", "a@b.sd")
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestCheckUniqueWithBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("open circuit refuses without querying", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		querier := mocks.NewMockQuerier(ctrl)
		cause := errors.New("connection refused")
		querier.EXPECT().Exists(gomock.Any(), "citizens", "email", gomock.Any()).Return(false, cause).Times(2)

		breaker := circuit.New("uniqueness", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Minute))
		checker := NewChecker(querier, nil, WithBreaker(breaker))

		for range 2 {
			_, err := checker.CheckUnique(ctx, "citizens", "email", "x")
			require.ErrorIs(t, err, cause)
		}
		assert.True(t, breaker.IsOpen())

		_, err := checker.CheckUnique(ctx, "citizens", "email", "x")
		require.ErrorIs(t, err, sentinel.ErrUnavailable)
		assert.NotErrorIs(t, err, cause)
	})

	t.Run("pairs outside the allow-list ignore the circuit", func(t *testing.T) {
		breaker := circuit.New("uniqueness", circuit.WithFailureThreshold(1))
		breaker.RecordFailure()

		res, err := NewChecker(NewInMemoryIndex(), nil, WithBreaker(breaker)).
			CheckUnique(ctx, "citizens", "nickname", "x")
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("cancelled calls do not trip the circuit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		querier := mocks.NewMockQuerier(ctrl)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		querier.EXPECT().Exists(gomock.Any(), "citizens", "email", "x").Return(false, context.Canceled)

		breaker := circuit.New("uniqueness", circuit.WithFailureThreshold(1))
		_, err := NewChecker(querier, nil, WithBreaker(breaker)).CheckUnique(cctx, "citizens", "email", "x")
		require.Error(t, err)
		assert.False(t, breaker.IsOpen())
	})

	t.Run("cancelled probe frees the half-open slot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		querier := mocks.NewMockQuerier(ctrl)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		querier.EXPECT().Exists(gomock.Any(), "citizens", "email", "x").Return(false, context.Canceled)

		now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
		breaker := circuit.New("uniqueness",
			circuit.WithFailureThreshold(1),
			circuit.WithCooldown(time.Second),
			circuit.WithClock(func() time.Time { return now }),
		)
		breaker.RecordFailure()
		now = now.Add(time.Second)

		_, err := NewChecker(querier, nil, WithBreaker(breaker)).CheckUnique(cctx, "citizens", "email", "x")
		require.Error(t, err)
		assert.Equal(t, circuit.StateHalfOpen, breaker.State())
		assert.True(t, breaker.Allow())
	})
}
