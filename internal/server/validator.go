package server

import "github.com/go-playground/validator/v10"

// requestValidator подключает go-playground/validator как echo.Validator,
// чтобы обработчики проверяли тела запросов через c.Validate.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

// Validate проверяет структуру запроса по validate-тегам полей.
func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
