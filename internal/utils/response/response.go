package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/remix-service/internal/types"
)

type Response struct {
	Status  string      `json:"status"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var b strings.Builder
	for _, err := range errs {
		b.WriteString(err.Field() + ": " + err.Tag() + "; ")
	}

	return Response{
		Status: StatusError,
		Error:  b.String(),
	}
}

func RequestOK(message string, data interface{}) Response {
	return Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrParentNotFound), errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err with the status StatusFor picks. Internal failures
// are not echoed to the client.
func WriteError(w http.ResponseWriter, err error) error {
	status := StatusFor(err)
	switch {
	case errors.Is(err, types.ErrLineageInconsistent):
		return WriteJSON(w, status, GeneralError(types.ErrLineageInconsistent))
	case status == http.StatusInternalServerError:
		return WriteJSON(w, status, GeneralError(errors.New("internal server error")))
	case status == http.StatusServiceUnavailable:
		return WriteJSON(w, status, GeneralError(types.ErrStorageUnavailable))
	}
	return WriteJSON(w, status, GeneralError(err))
}
