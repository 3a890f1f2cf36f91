package response

import (
	"encoding/json"
	"net/http"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type messageBody struct {
	Msg string `json:"msg"`
}

type errorBody struct {
	Error string `json:"error"`
}

type validationBody struct {
	Errors []FieldError `json:"errors"`
}

// JSON writes data as the response body without an envelope.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Message writes {"msg": msg}.
func Message(w http.ResponseWriter, statusCode int, msg string) {
	JSON(w, statusCode, messageBody{Msg: msg})
}

func BadRequest(w http.ResponseWriter, msg string) {
	Message(w, http.StatusBadRequest, msg)
}

func Unauthorized(w http.ResponseWriter, msg string) {
	Message(w, http.StatusUnauthorized, msg)
}

func NotFound(w http.ResponseWriter, msg string) {
	Message(w, http.StatusNotFound, msg)
}

func Validation(w http.ResponseWriter, errs []FieldError) {
	JSON(w, http.StatusBadRequest, validationBody{Errors: errs})
}

// Error writes {"error": msg}. Used for server-side failures where the
// message is generic.
func Error(w http.ResponseWriter, statusCode int, msg string) {
	JSON(w, statusCode, errorBody{Error: msg})
}

func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Server error")
}
