package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := NotFound("appointment")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, "appointment not found", err.Error())
}

func TestErrorIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("approve: %w", CaregiverUnavailable("caregiver is not available"))

	assert.True(t, errors.Is(err, ErrCaregiverUnavailable))
	assert.Equal(t, KindCaregiverUnavailable, KindOf(err))
}

func TestFromWrapsUnknownErrorsAsStorage(t *testing.T) {
	cause := errors.New("connection reset")
	err := From(cause)

	assert.Equal(t, KindStorageFailure, err.Kind)
	assert.True(t, err.Retryable())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, From(nil))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestOnlyStorageFailureIsRetryable(t *testing.T) {
	kinds := []*Error{
		ErrNotFound,
		ErrInvalidTransition,
		ErrCaregiverUnavailable,
		ErrInvalidSchedule,
		ErrValidation,
		ErrForbidden,
		ErrNotificationFailure,
	}
	for _, e := range kinds {
		assert.False(t, e.Retryable(), string(e.Kind))
	}
	assert.True(t, ErrStorageFailure.Retryable())
}

func TestInvalidScheduleKeepsCause(t *testing.T) {
	cause := errors.New("parsing time")
	err := InvalidSchedule("invalid requested date", cause)

	assert.Equal(t, "invalid requested date: parsing time", err.Error())
	assert.ErrorIs(t, err, cause)
}
