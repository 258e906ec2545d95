package validator

import (
	"testing"

	"pickleshop/internal/domain/model"
	"pickleshop/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestValidateCredentials(t *testing.T) {
	v := NewAuthValidator()

	tests := []struct {
		name     string
		email    string
		password string
		ok       bool
	}{
		{"valid", "ann@example.com", "secret-pw", true},
		{"padded email", "  ann@example.com ", "secret-pw", true},
		{"missing email", "", "secret-pw", false},
		{"missing password", "ann@example.com", "", false},
		{"malformed", "ann@", "secret-pw", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCredentials(tt.email, tt.password)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidInput)
			}
		})
	}
}

func TestValidatePersistence(t *testing.T) {
	v := NewAuthValidator()
	for _, m := range []string{"local", "session", "none"} {
		assert.NoError(t, v.ValidatePersistence(m))
	}
	assert.ErrorIs(t, v.ValidatePersistence("forever"), ErrInvalidInput)
}

func TestValidateCheckout(t *testing.T) {
	v := NewCheckoutValidator()
	ok := usecase.CheckoutInput{Name: "Ann", Phone: "0901234567", Address: "1 Le Loi, HCMC"}
	assert.NoError(t, v.ValidateCheckout(ok))

	for _, in := range []usecase.CheckoutInput{
		{Phone: "0901234567", Address: "1 Le Loi"},
		{Name: "Ann", Address: "1 Le Loi"},
		{Name: "Ann", Phone: "0901234567"},
	} {
		assert.ErrorIs(t, v.ValidateCheckout(in), ErrInvalidInput)
	}
}

func TestValidateProduct(t *testing.T) {
	v := NewProductValidator()
	ok := usecase.ProductInput{Name: "Paddle", Category: string(model.CategoryPaddles), Price: 100}
	assert.NoError(t, v.ValidateProduct(ok))

	bad := ok
	bad.Category = "Rackets"
	assert.ErrorIs(t, v.ValidateProduct(bad), ErrInvalidInput)

	bad = ok
	bad.Price = -1
	assert.ErrorIs(t, v.ValidateProduct(bad), ErrInvalidInput)

	bad = ok
	bad.Name = ""
	assert.ErrorIs(t, v.ValidateProduct(bad), ErrInvalidInput)
}
