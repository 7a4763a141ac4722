package model

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("dateonly", validDateOnly)
	}
}

// validDateOnly accepts calendar dates in the YYYY-MM-DD wire format.
func validDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateKeyFormat, fl.Field().String())
	return err == nil
}
