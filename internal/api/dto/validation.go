package dto

import (
	"errors"

	"github.com/cuongbtq/job-mailer/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by the request DTOs
// to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}

	return v.RegisterValidation("jobstatus", validateJobStatus)
}

func validateJobStatus(fl validator.FieldLevel) bool {
	_, err := domain.ParseJobStatus(fl.Field().String())
	return err == nil
}
