package usecase_test

import (
	"errors"
	"testing"

	"pickleshop/internal/catalog"
	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/domain/model"
	repo "pickleshop/internal/repository"
	"pickleshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListProducts_FallsBackWhenStoreEmptyOrFailing(t *testing.T) {
	for name, setup := range map[string]func(m *ProductRepoMock){
		"empty": func(m *ProductRepoMock) { m.On("List", mock.Anything).Return([]model.Product{}, nil) },
		"error": func(m *ProductRepoMock) { m.On("List", mock.Anything).Return(nil, errors.New("unavailable")) },
	} {
		t.Run(name, func(t *testing.T) {
			products := new(ProductRepoMock)
			setup(products)
			uc := usecase.NewCatalogUsecase(products, nil)

			page := uc.ListProducts(t.Context(), "", 1)
			assert.Equal(t, len(catalog.Products()), page.TotalItems)
			assert.Len(t, page.Items, usecase.ProductPageSize)
			assert.Equal(t, "1", page.Items[0].ID)
		})
	}
}

func TestListProducts_UsesStoreAndFiltersCategory(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("List", mock.Anything).Return([]model.Product{
		{ID: "a", Category: model.CategoryBalls, Price: 100},
		{ID: "b", Category: model.CategoryPaddles, Price: 200},
		{ID: "c", Category: model.CategoryBalls, Price: 300},
	}, nil)
	uc := usecase.NewCatalogUsecase(products, nil)

	all := uc.ListProducts(t.Context(), "All", 1)
	assert.Equal(t, 3, all.TotalItems)

	balls := uc.ListProducts(t.Context(), string(model.CategoryBalls), 7)
	require.Len(t, balls.Items, 2)
	assert.Equal(t, 1, balls.Page)
	assert.Equal(t, "a", balls.Items[0].ID)
	assert.Equal(t, "c", balls.Items[1].ID)
}

func TestGetProduct(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByID", mock.Anything, "x").Return(model.Product{ID: "x", Name: "stored"}, nil)
	products.On("FindByID", mock.Anything, "1").Return(nil, repo.ErrNotFound)
	products.On("FindByID", mock.Anything, "2").Return(nil, errors.New("timeout"))
	products.On("FindByID", mock.Anything, "nope").Return(nil, repo.ErrNotFound)
	uc := usecase.NewCatalogUsecase(products, nil)

	p, err := uc.GetProduct(t.Context(), "x")
	require.NoError(t, err)
	assert.Equal(t, "stored", p.Name)

	p, err = uc.GetProduct(t.Context(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Selkirk Vanguard Power Air Invikta", p.Name)

	p, err = uc.GetProduct(t.Context(), "2")
	require.NoError(t, err)
	assert.Equal(t, "2", p.ID)

	_, err = uc.GetProduct(t.Context(), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCategories(t *testing.T) {
	uc := usecase.NewCatalogUsecase(new(ProductRepoMock), nil)
	cats := uc.Categories()
	assert.Equal(t, "All", cats[0])
	assert.Len(t, cats, len(model.Categories)+1)
}
