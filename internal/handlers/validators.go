package handlers

import (
	"errors"
	"regexp"

	"github.com/SscSPs/persona_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var coinhouseTagPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)

// registerValidators adds the persona-specific binding tags to gin's validator.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	if err := v.RegisterValidation("personaid", validatePersonaID); err != nil {
		return err
	}
	return v.RegisterValidation("coinhousetag", validateCoinhouseTag)
}

func validatePersonaID(fl validator.FieldLevel) bool {
	_, err := domain.ParsePersonaID(fl.Field().String())
	return err == nil
}

func validateCoinhouseTag(fl validator.FieldLevel) bool {
	return coinhouseTagPattern.MatchString(fl.Field().String())
}
