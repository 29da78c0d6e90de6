package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/itam/backend/internal/domain/asset"
)

// SetupValidator configures the request validator with custom tags.
// Call once before the engine starts serving.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Report field names from json tags instead of Go struct fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// assetstatus accepts any canonical or legacy status token
	_ = v.RegisterValidation("assetstatus", func(fl validator.FieldLevel) bool {
		_, err := asset.ParseStatus(fl.Field().String())
		return err == nil
	})
}
