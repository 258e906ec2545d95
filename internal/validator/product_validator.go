package validator

import (
	"unicode/utf8"

	"pickleshop/internal/domain/model"
	"pickleshop/internal/usecase"
)

type productValidator struct{}

func NewProductValidator() usecase.ProductValidator {
	return &productValidator{}
}

func (v *productValidator) ValidateProduct(in usecase.ProductInput) error {
	if in.Name == "" {
		return invalid("name is required")
	}
	if utf8.RuneCountInString(in.Name) > 255 {
		return invalid("name is too long")
	}
	if !model.Category(in.Category).Valid() {
		return invalid("unknown category")
	}
	if in.Price < 0 {
		return invalid("price must be >= 0")
	}
	return nil
}
