package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"notebook-server/internal/domain"
	"notebook-server/internal/logger"
	"notebook-server/internal/middleware"
	"notebook-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

// Deps is shared by every handler.
type Deps struct {
	Log       *logger.Logger
	Validate  *validator.Validate
	DBTimeout time.Duration
}

// NewValidator returns a validator that reports fields by their JSON names
// and knows the notblank tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return v
}

// maxBytes limits a string by its encoded length rather than its rune
// count. bcrypt rejects passwords longer than 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// storeContext detaches the store call from client cancellation and bounds
// it with the configured timeout.
func (d *Deps) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), d.DBTimeout)
}

// decode reads a JSON body into dst. Unknown fields are ignored.
func (d *Deps) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

func (d *Deps) validate(v interface{}) error {
	return d.Validate.Struct(v)
}

// writeError maps err to the response the client sees. Anything not
// recognised is logged and reported as a generic 500.
func (d *Deps) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	var qerr *queryError

	switch {
	case errors.As(err, &verrs):
		response.Validation(w, fieldErrors(verrs))
	case errors.As(err, &qerr):
		response.Validation(w, qerr.errs)
	case errors.Is(err, errBadBody):
		response.BadRequest(w, "Invalid request body")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.BadRequest(w, "Invalid credentials")
	case errors.Is(err, domain.ErrUserExists):
		response.BadRequest(w, "User already exists")
	case errors.Is(err, domain.ErrUnauthenticated):
		response.Unauthorized(w, "Token is not valid")
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "Not found")
	default:
		d.Log.Error("request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		response.InternalError(w)
	}
}

func fieldErrors(verrs validator.ValidationErrors) []response.FieldError {
	out := make([]response.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, response.FieldError{
			Field: fieldPath(fe),
			Msg:   fieldMessage(fe),
		})
	}
	return out
}

// fieldPath drops the root struct name from the namespace, so
// "CreateNoteRequest.tags[2]" becomes "tags[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must have at least %s items", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must have at most %s items", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	default:
		return "is invalid"
	}
}
