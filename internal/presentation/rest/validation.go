package rest

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/dto"
)

var registerOnce sync.Once

// registerValidators installs the custom rules on gin's validator and
// reports fields by their JSON names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(dto.FieldName)
		_ = v.RegisterValidation("phone", validPhone)
	})
}

func validPhone(fl validator.FieldLevel) bool {
	return dto.ValidPhone(fl.Field().String())
}
