package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"owners-health-api/internal/llm"
	"owners-health-api/internal/middleware"
	"owners-health-api/internal/repository"
	"owners-health-api/internal/service"
	"owners-health-api/pkg/apierror"
	"owners-health-api/pkg/response"
)

// writeError maps service errors onto API errors. Anything unrecognised
// is logged and reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	var (
		apiErr *apierror.Error
		verrs  validator.ValidationErrors
	)

	switch {
	case errors.As(err, &apiErr):
		response.Error(w, apiErr)
	case errors.Is(err, repository.ErrNotFound):
		response.Error(w, apierror.NotFound(""))
	case errors.As(err, &verrs):
		response.Error(w, apierror.FromValidation(err))
	case errors.Is(err, service.ErrInvalidInput):
		response.Error(w, apierror.BadRequest(err.Error()))
	case errors.Is(err, llm.ErrGenerationUnavailable):
		response.Error(w, apierror.GenerationUnavailable())
	case errors.Is(err, llm.ErrGenerationFailed):
		response.Error(w, apierror.GenerationFailed(err.Error()))
	default:
		log.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
		response.Error(w, err)
	}
}

// pathID reads a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest(name + " must be a positive integer")
	}
	return id, nil
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierror.BadRequest("invalid JSON")
	}
	return nil
}
