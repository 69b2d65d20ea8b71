package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-care-scheduling/pkg/apperror"
	"go-care-scheduling/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	cases := map[apperror.Kind]int{
		apperror.KindNotFound:             http.StatusNotFound,
		apperror.KindInvalidTransition:    http.StatusConflict,
		apperror.KindCaregiverUnavailable: http.StatusConflict,
		apperror.KindInvalidSchedule:      http.StatusBadRequest,
		apperror.KindValidation:           http.StatusBadRequest,
		apperror.KindForbidden:            http.StatusForbidden,
		apperror.KindStorageFailure:       http.StatusServiceUnavailable,
		apperror.KindNotificationFailure:  http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusOf(kind), kind)
	}
}

func TestWriteErrorHidesStorageCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Message string             `json:"message"`
		Error   response.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body.Message, "10.0.0.5")
	assert.Equal(t, string(apperror.KindStorageFailure), body.Error.Kind)
	assert.True(t, body.Error.Retryable)
}
