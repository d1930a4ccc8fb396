package api

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mmdatafocus/cashregister_backend/models"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("movementkind", func(fl validator.FieldLevel) bool {
			return models.MovementKind(fl.Field().String()).IsValid()
		})
		v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "" || models.PaymentMethod(value).IsValid()
		})
	}
}
