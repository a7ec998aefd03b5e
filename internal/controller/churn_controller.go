package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/churn-predictor/internal/errors"
	"github.com/unclebandit/churn-predictor/internal/form"
	"github.com/unclebandit/churn-predictor/internal/service"
)

const maxBodyBytes = 64 << 10

type ChurnController struct {
	ChurnService *service.ChurnService
	Log          *zap.Logger
}

// Predict scores the customer described by the JSON body. Omitted fields
// take their form defaults; an empty body scores the default customer.
func (c *ChurnController) Predict(w http.ResponseWriter, r *http.Request) {
	var in form.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		if !errors.Is(err, io.EOF) {
			c.writeError(w, decodeError(err))
			return
		}
	} else if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		c.writeError(w, trailingDataError(err))
		return
	}

	result, err := c.ChurnService.Predict(r.Context(), in)
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ScoreCustomer scores a stored customer by id.
func (c *ChurnController) ScoreCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", "invalid customer id"))
		return
	}

	result, err := c.ChurnService.ScoreCustomer(r.Context(), id)
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Form returns the form layout so clients can render the inputs.
func (c *ChurnController) Form(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": []string{form.SectionCustomer, form.SectionServices},
		"fields":   form.Fields(),
	})
}

// Model describes the loaded classifier and the thresholds in use.
func (c *ChurnController) Model(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"model": c.ChurnService.Inference.ModelInfo(),
		"thresholds": map[string]float64{
			"churn":    service.ChurnThreshold,
			"advisory": service.AdvisoryThreshold,
		},
	})
}

// decodeError turns JSON type mismatches into field errors so clients see
// which input was wrong.
func decodeError(err error) error {
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &sizeErr):
		return err
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return appErrors.NewFieldOutOfRange(typeErr.Field, typeErr.Value, expectedKind(typeErr))
	}
	return &badRequest{err: err}
}

// trailingDataError reports anything after the first JSON value.
func trailingDataError(err error) error {
	var sizeErr *http.MaxBytesError
	if errors.As(err, &sizeErr) {
		return err
	}
	return &badRequest{err: errors.New("body must contain a single JSON object")}
}

func expectedKind(typeErr *json.UnmarshalTypeError) string {
	f, ok := form.Lookup(typeErr.Field)
	if !ok {
		return "must be of type " + typeErr.Type.String()
	}
	switch f.Kind {
	case form.KindInteger:
		return "must be an integer"
	case form.KindNumber:
		return "must be a number"
	}
	if len(f.Options) > 0 && typeErr.Type.Kind() == reflect.String {
		return "must be one of the listed options"
	}
	return "must be of type " + typeErr.Type.String()
}

type badRequest struct{ err error }

func (e *badRequest) Error() string { return "invalid body: " + e.err.Error() }
func (e *badRequest) Unwrap() error { return e.err }

func (c *ChurnController) writeError(w http.ResponseWriter, err error) {
	var (
		tooLarge *http.MaxBytesError
		invalid  *appErrors.ErrInvalidFieldValue
		inferr   *appErrors.ErrInference
		notFound *appErrors.ErrCustomerNotFound
		badReq   *badRequest
	)
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request_too_large", err.Error()))
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_field_value", err.Error()))
	case errors.As(err, &badReq):
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", err.Error()))
	case errors.Is(err, service.ErrCustomerStoreDisabled):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("unavailable", err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorBody("timeout", err.Error()))
	case errors.As(err, &inferr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("inference_error", err.Error()))
	default:
		if c.Log != nil {
			c.Log.Error("unhandled error", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal error"))
	}
}

func errorBody(code, description string) map[string]string {
	return map[string]string{
		"error":             code,
		"error_description": description,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
