package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/enrollboard/internal/dashboard"
	"github.com/KaramelBytes/enrollboard/internal/dataset"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tab", func(fl validator.FieldLevel) bool {
		_, err := dashboard.ParseTab(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		_, err := dataset.ParseGender(fl.Field().String())
		return err == nil
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "tab":
		return fmt.Sprintf("%s: unknown tab %q", field, fe.Value())
	case "gender":
		return fmt.Sprintf("%s: must be both, female or male", field)
	case "number":
		return fmt.Sprintf("%s: must be an integer", field)
	case "max":
		return fmt.Sprintf("%s: exceeds maximum %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s: must not be empty", field)
	default:
		return fmt.Sprintf("%s: failed %s", field, fe.Tag())
	}
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}
