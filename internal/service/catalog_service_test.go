package service

import (
	"context"
	"testing"

	"agriconnect-api/internal/events"
	"agriconnect-api/internal/model"
	"agriconnect-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productIDs(products []model.FarmProduct) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestListVisibleProductsScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db), events.Discard{})
	ctx := context.Background()

	puneFarmer := createUser(t, db, "asha", "Pune", true, false)
	nashikFarmer := createUser(t, db, "meena", "Nashik", true, false)
	hybrid := createUser(t, db, "dev", "Pune", true, true)
	buyer := createUser(t, db, "ravi", "Pune", false, true)
	viewer := createUser(t, db, "guest", "Pune", false, false)

	tomatoes := createProduct(t, db, puneFarmer, "Tomatoes", "10", "5", true)
	soldOut := createProduct(t, db, puneFarmer, "Okra", "0", "4", false)
	onions := createProduct(t, db, nashikFarmer, "Onions", "20", "3", true)
	grapes := createProduct(t, db, nashikFarmer, "Grapes", "5", "9", false)

	t.Run("farmer sees own listings including unavailable", func(t *testing.T) {
		got, err := svc.ListVisibleProducts(ctx, puneFarmer)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{tomatoes.ID, soldOut.ID}, productIDs(got))
	})

	t.Run("farmer and buyer flags resolve to farmer", func(t *testing.T) {
		got, err := svc.ListVisibleProducts(ctx, hybrid)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("buyer sees available listings from their location", func(t *testing.T) {
		got, err := svc.ListVisibleProducts(ctx, buyer)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{tomatoes.ID}, productIDs(got))
		require.NotNil(t, got[0].Farmer)
		assert.Equal(t, "asha", got[0].Farmer.Username)
	})

	t.Run("location match is exact", func(t *testing.T) {
		lower := createUser(t, db, "lower", "pune", false, true)
		got, err := svc.ListVisibleProducts(ctx, lower)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("neither capability sees every available listing", func(t *testing.T) {
		got, err := svc.ListVisibleProducts(ctx, viewer)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{tomatoes.ID, onions.ID}, productIDs(got))
		assert.NotContains(t, productIDs(got), grapes.ID)
	})
}

func TestGetProductFollowsVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db), events.Discard{})
	ctx := context.Background()

	farmer := createUser(t, db, "asha", "Pune", true, false)
	buyer := createUser(t, db, "ravi", "Pune", false, true)
	farBuyer := createUser(t, db, "kiran", "Nagpur", false, true)
	tomatoes := createProduct(t, db, farmer, "Tomatoes", "10", "5", true)

	got, err := svc.GetProduct(ctx, buyer, tomatoes.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomatoes", got.Name)

	_, err = svc.GetProduct(ctx, farmer, tomatoes.ID)
	require.NoError(t, err)

	_, err = svc.GetProduct(ctx, farBuyer, tomatoes.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.GetProduct(ctx, buyer, uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateProductBindsFarmer(t *testing.T) {
	db := newTestDB(t)
	pub := newRecordingPublisher()
	svc := NewCatalogService(repository.NewProductRepo(db), pub)
	ctx := context.Background()
	farmer := createUser(t, db, "asha", "Pune", true, false)

	unavailable := false
	product, err := svc.CreateProduct(ctx, farmer, CreateProductInput{
		Name:         "  Wheat ",
		Quantity:     dec("120.5"),
		PricePerUnit: dec("22.45"),
		Available:    &unavailable,
	})
	require.NoError(t, err)
	assert.Equal(t, farmer.ID, product.FarmerID)
	assert.Equal(t, "Wheat", product.Name)
	assert.Equal(t, model.DefaultUnit, product.Unit)
	assertDecimal(t, "22.45", product.PricePerUnit)

	stored := reloadProduct(t, db, product)
	assert.False(t, stored.Available)
	assertDecimal(t, "120.5", stored.Quantity)

	e := pub.next(t)
	assert.Equal(t, events.ActionProductCreated, e.Action)
}

func TestCreateProductRequiresFarmer(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db), events.Discard{})
	buyer := createUser(t, db, "ravi", "Pune", false, true)

	_, err := svc.CreateProduct(context.Background(), buyer, CreateProductInput{Name: "Wheat", Quantity: dec("1"), PricePerUnit: dec("1")})
	assert.ErrorIs(t, err, ErrFarmerOnly)
	assert.Equal(t, KindForbidden, kindOf(t, err))
}

func TestCreateProductValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db), events.Discard{})
	farmer := createUser(t, db, "asha", "Pune", true, false)

	cases := map[string]CreateProductInput{
		"blank name":     {Name: " ", Quantity: dec("1"), PricePerUnit: dec("1")},
		"negative stock": {Name: "Wheat", Quantity: dec("-1"), PricePerUnit: dec("1")},
		"negative price": {Name: "Wheat", Quantity: dec("1"), PricePerUnit: dec("-0.01")},
		"sub-cent price": {Name: "Wheat", Quantity: dec("1"), PricePerUnit: dec("22.456")},
		"sub-cent stock": {Name: "Wheat", Quantity: dec("0.005"), PricePerUnit: dec("1")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), farmer, in)
			assert.Equal(t, KindValidation, kindOf(t, err))
		})
	}
}

func TestUpdateProductChangesListingButNotStock(t *testing.T) {
	db := newTestDB(t)
	pub := newRecordingPublisher()
	svc := NewCatalogService(repository.NewProductRepo(db), pub)
	ctx := context.Background()
	farmer := createUser(t, db, "asha", "Pune", true, false)
	buyer := createUser(t, db, "ravi", "Pune", false, true)
	tomato := createProduct(t, db, farmer, "Tomatoes", "10.00", "5.00", true)

	name := "Cherry tomatoes"
	price := dec("6.50")
	delist := false
	updated, err := svc.UpdateProduct(ctx, farmer, tomato.ID, UpdateProductInput{
		Name:         &name,
		PricePerUnit: &price,
		Available:    &delist,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cherry tomatoes", updated.Name)
	assertDecimal(t, "6.5", updated.PricePerUnit)
	assert.False(t, updated.Available)
	assertDecimal(t, "10", updated.Quantity)
	assert.Equal(t, events.ActionProductUpdated, pub.next(t).Action)

	stored := reloadProduct(t, db, tomato)
	assert.False(t, stored.Available)
	assertDecimal(t, "10", stored.Quantity)

	listed, err := svc.ListVisibleProducts(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, listed)

	relist := true
	_, err = svc.UpdateProduct(ctx, farmer, tomato.ID, UpdateProductInput{Available: &relist})
	require.NoError(t, err)
	listed, err = svc.ListVisibleProducts(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tomato.ID}, productIDs(listed))
}

func TestUpdateProductOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db), events.Discard{})
	ctx := context.Background()
	owner := createUser(t, db, "asha", "Pune", true, false)
	other := createUser(t, db, "kiran", "Pune", true, false)
	buyer := createUser(t, db, "ravi", "Pune", false, true)
	tomato := createProduct(t, db, owner, "Tomatoes", "10.00", "5.00", true)

	name := "Mine now"
	_, err := svc.UpdateProduct(ctx, other, tomato.ID, UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.UpdateProduct(ctx, buyer, tomato.ID, UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, ErrFarmerOnly)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, other, tomato.ID), ErrProductNotFound)
	assert.Equal(t, "Tomatoes", reloadProduct(t, db, tomato).Name)
}

func TestUpdateProductValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewProductRepo(db), events.Discard{})
	farmer := createUser(t, db, "asha", "Pune", true, false)
	tomato := createProduct(t, db, farmer, "Tomatoes", "10.00", "5.00", true)

	blank := "  "
	_, err := svc.UpdateProduct(context.Background(), farmer, tomato.ID, UpdateProductInput{Name: &blank})
	assert.Equal(t, KindValidation, kindOf(t, err))

	price := dec("1.999")
	_, err = svc.UpdateProduct(context.Background(), farmer, tomato.ID, UpdateProductInput{PricePerUnit: &price})
	assert.Equal(t, KindValidation, kindOf(t, err))

	assertDecimal(t, "5", reloadProduct(t, db, tomato).PricePerUnit)
}

func TestDeleteProductIsSoftAndKeepsOrderHistory(t *testing.T) {
	db := newTestDB(t)
	pub := newRecordingPublisher()
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	svc := NewCatalogService(productRepo, pub)
	orders := NewOrderService(productRepo, orderRepo, db, nil, nil)
	ctx := context.Background()
	farmer := createUser(t, db, "asha", "Pune", true, false)
	buyer := createUser(t, db, "ravi", "Pune", false, true)
	tomato := createProduct(t, db, farmer, "Tomatoes", "10.00", "5.00", true)

	order, err := orders.PlaceOrder(ctx, buyer, PlaceOrderInput{ProductID: tomato.ID, Quantity: dec("2")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, farmer, tomato.ID))
	assert.Equal(t, events.ActionProductRemoved, pub.next(t).Action)

	_, err = svc.GetProduct(ctx, farmer, tomato.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	listed, err := svc.ListVisibleProducts(ctx, farmer)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = orders.PlaceOrder(ctx, buyer, PlaceOrderInput{ProductID: tomato.ID, Quantity: dec("1")})
	assert.ErrorIs(t, err, ErrProductNotFound)

	history, err := orders.GetOrder(ctx, farmer, order.ID)
	require.NoError(t, err)
	require.NotNil(t, history.Product)
	assert.Equal(t, "Tomatoes", history.Product.Name)

	var raw model.FarmProduct
	require.NoError(t, db.Unscoped().First(&raw, "id = ?", tomato.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)
}
