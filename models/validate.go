package models

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

/*
RegisterWithValidator register with the validator this custom validation support

	@param v *validator.Validate - the validator to register against
	@return whether successful
*/
func RegisterWithValidator(v *validator.Validate) error {
	return v.RegisterValidation("system_event_type", validateSystemEventType)
}

func validateSystemEventType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	switch SystemEventTypeENUMType(fl.Field().String()) {
	case SystemEventTypeAddVaultKey:
		fallthrough
	case SystemEventTypeUpdateVaultKey:
		fallthrough
	case SystemEventTypeReencryptVaultKey:
		fallthrough
	case SystemEventTypeRevealVaultKey:
		fallthrough
	case SystemEventTypeDeleteVaultKey:
		return true
	}
	return false
}
