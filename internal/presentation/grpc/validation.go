package grpc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
)

// newValidator checks requests against the same binding tags the HTTP layer
// uses.
func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(dto.FieldName)
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return dto.ValidPhone(fl.Field().String())
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request: " + err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}
