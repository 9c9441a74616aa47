package dto

import "github.com/go-playground/validator/v10"

// validate instancia compartida del validador de structs (tags `validate:`).
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate valida un request DTO contra sus tags. Devuelve el error del
// validador tal cual; los handlers lo mapean a VALIDATION / HTTP 400.
func Validate(in any) error {
	return validate.Struct(in)
}
