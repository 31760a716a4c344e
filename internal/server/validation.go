package server

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxCaptionLength = 500
	maxMessageLength = 2000
	maxOptionLength  = 200
	minOptions       = 2
	maxOptions       = 4
	maxGuestCount    = 10
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("optionlist", func(fl validator.FieldLevel) bool {
			options, ok := fl.Field().Interface().([]string)
			if !ok {
				return false
			}
			return validOptions(options)
		})
	})
}

// validOptions requires 2-4 options, all non-empty after trimming.
func validOptions(options []string) bool {
	if len(options) < minOptions || len(options) > maxOptions {
		return false
	}
	for _, option := range options {
		trimmed := strings.TrimSpace(option)
		if trimmed == "" || len(trimmed) > maxOptionLength {
			return false
		}
	}
	return true
}

func trimOptions(options []string) []string {
	trimmed := make([]string, 0, len(options))
	for _, option := range options {
		trimmed = append(trimmed, strings.TrimSpace(option))
	}
	return trimmed
}
