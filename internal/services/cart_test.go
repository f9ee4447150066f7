package services

import (
	"context"
	"testing"

	"fithub/internal/repositories"
	"fithub/internal/testutil"
	"fithub/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_EncodeDecodeKeepsQuantities(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	cart := Cart{}
	cart.Add(a, 1)
	cart.Add(a, 2)
	cart.Set(b, 5)

	decoded, err := DecodeCart(cart.Encode())
	require.NoError(t, err)
	assert.Equal(t, 3, decoded[a])
	assert.Equal(t, 5, decoded[b])
	assert.Equal(t, 2, decoded.Size())
}

func TestCart_SetNonPositiveRemoves(t *testing.T) {
	id := uuid.New()
	cart := Cart{id: 4}
	cart.Set(id, 0)
	assert.True(t, cart.IsEmpty())

	cart.Add(id, 0)
	assert.True(t, cart.IsEmpty(), "adding zero units is a no-op")
}

func TestDecodeCart_EmptyAndInvalid(t *testing.T) {
	cart, err := DecodeCart("")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	_, err = DecodeCart(`{"not-a-uuid": 1}`)
	assert.Error(t, err)

	id := uuid.New()
	cart, err = DecodeCart(`{"` + id.String() + `": 0}`)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty(), "zero quantities are dropped")
}

func TestCartService_AddAndView(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCartService(repositories.NewProductRepository(db))
	ctx := context.Background()

	mat := testutil.CreateProduct(t, db, "Yoga Mat", "25.00", 10)
	band := testutil.CreateProduct(t, db, "Band", "4.50", 10)

	cart := Cart{}
	require.NoError(t, svc.Add(ctx, cart, mat.ID, 2))
	require.NoError(t, svc.Add(ctx, cart, band.ID, 1))
	require.NoError(t, svc.Add(ctx, cart, band.ID, 1))

	view, err := svc.View(ctx, cart)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Band", view.Items[0].Product.Name)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("59.00").Equal(view.Total))
}

func TestCartService_AddRejectsUnknownProductAndBadQuantity(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCartService(repositories.NewProductRepository(db))
	ctx := context.Background()

	err := svc.Add(ctx, Cart{}, uuid.New(), 1)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	p := testutil.CreateProduct(t, db, "Rope", "9.99", 1)
	err = svc.Add(ctx, Cart{}, p.ID, 0)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestCartService_ViewMissingProductIsNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCartService(repositories.NewProductRepository(db))

	_, err := svc.View(context.Background(), Cart{uuid.New(): 1})
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestCartService_AddStopsWhenCartNoLongerFitsCheckout(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCartService(repositories.NewProductRepository(db))
	ctx := context.Background()
	cart := Cart{}

	var refused error
	accepted := 0
	for i := 0; i < 20; i++ {
		product := testutil.CreateProduct(t, db, "Bar "+string(rune('A'+i)), "2.50", 10)
		if refused = svc.Add(ctx, cart, product.ID, 1); refused != nil {
			break
		}
		accepted++
	}

	require.ErrorIs(t, refused, utils.ErrCartFull)
	assert.Equal(t, 12, accepted)
	assert.Equal(t, accepted, cart.Size(), "the refused product is not kept")
	assert.True(t, cart.Fits())

	// Existing lines can still change quantity while the cart fits.
	first := cart.ProductIDs()[0]
	require.NoError(t, svc.Add(ctx, cart, first, 1))
	assert.Equal(t, 2, cart[first])
}
