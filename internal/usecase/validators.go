package usecase

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateCredentials(email string, password string) error
	ValidatePersistence(mode string) error
}

type CheckoutValidator interface {
	ValidateCheckout(in CheckoutInput) error
}

type ProductValidator interface {
	ValidateProduct(in ProductInput) error
}
