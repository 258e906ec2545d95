package validator

import (
	"unicode/utf8"

	"pickleshop/internal/usecase"
)

type checkoutValidator struct{}

func NewCheckoutValidator() usecase.CheckoutValidator {
	return &checkoutValidator{}
}

// 宛名・電話・住所は必須
func (v *checkoutValidator) ValidateCheckout(in usecase.CheckoutInput) error {
	if in.Name == "" {
		return invalid("name is required")
	}
	if in.Phone == "" {
		return invalid("phone is required")
	}
	if in.Address == "" {
		return invalid("address is required")
	}
	if utf8.RuneCountInString(in.Name) > 255 {
		return invalid("name is too long")
	}
	if utf8.RuneCountInString(in.Phone) > 30 {
		return invalid("phone is too long")
	}
	return nil
}
