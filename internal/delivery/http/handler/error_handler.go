package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go-care-scheduling/internal/delivery/http/middleware"
	"go-care-scheduling/internal/domain/entity"
	"go-care-scheduling/pkg/apperror"
	"go-care-scheduling/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// statusOf maps an error kind to its HTTP status.
func statusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindInvalidTransition, apperror.KindCaregiverUnavailable:
		return http.StatusConflict
	case apperror.KindInvalidSchedule, apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindStorageFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with its kind. Storage failures hide the cause.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.From(err)
	}

	message := appErr.Message
	if appErr.Kind == apperror.KindStorageFailure {
		message = "Service temporarily unavailable"
	}
	response.Error(w, statusOf(appErr.Kind), message, response.ErrorBody{
		Kind:      string(appErr.Kind),
		Retryable: appErr.Retryable(),
	})
}

// actorOf returns the authenticated actor, writing 401 when there is none.
func actorOf(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
	}
	return actor, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter; missing or malformed values are 0.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func pagination(r *http.Request) entity.Pagination {
	return entity.Pagination{Page: queryInt(r, "page"), Limit: queryInt(r, "limit")}.Normalize()
}

// decodeOptional decodes a JSON body that may be absent.
func decodeOptional(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
