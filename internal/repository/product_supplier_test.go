package repository

import (
	"context"
	"testing"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferCreate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductSupplierRepository(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "Aceite 1L", "9.90")
	s := testutil.CreateSupplier(t, db, "Alicorp")

	offer := &model.ProductSupplier{
		ProductID:    p.ID,
		SupplierID:   s.ID,
		CostPrice:    decimal.RequireFromString("7.40"),
		LeadTimeDays: 3,
	}
	require.NoError(t, repo.Create(ctx, offer))

	dup := *offer
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrConflict)

	noProduct := model.ProductSupplier{ProductID: 999, SupplierID: s.ID, CostPrice: decimal.NewFromInt(1), LeadTimeDays: 1}
	assert.ErrorIs(t, repo.Create(ctx, &noProduct), ErrNotFound)

	noSupplier := model.ProductSupplier{ProductID: p.ID, SupplierID: 999, CostPrice: decimal.NewFromInt(1), LeadTimeDays: 1}
	assert.ErrorIs(t, repo.Create(ctx, &noSupplier), ErrNotFound)
}

func TestOfferListByProductKeepsCreationOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductSupplierRepository(db)

	p := testutil.CreateProduct(t, db, "Aceite 1L", "9.90")
	other := testutil.CreateProduct(t, db, "Vinagre", "3.00")
	s1 := testutil.CreateSupplier(t, db, "Uno")
	s2 := testutil.CreateSupplier(t, db, "Dos")
	s3 := testutil.CreateSupplier(t, db, "Tres")
	testutil.CreateOffer(t, db, p.ID, s1.ID, "7.40", 3)
	testutil.CreateOffer(t, db, other.ID, s2.ID, "2.00", 1)
	testutil.CreateOffer(t, db, p.ID, s2.ID, "7.10", 5)
	testutil.CreateOffer(t, db, p.ID, s3.ID, "7.90", 1)

	offers, err := repo.ListByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, offers, 3)
	assert.Equal(t, []uint{s1.ID, s2.ID, s3.ID}, []uint{offers[0].SupplierID, offers[1].SupplierID, offers[2].SupplierID})
	assert.True(t, offers[1].CostPrice.Equal(decimal.RequireFromString("7.1")))

	none, err := repo.ListByProduct(context.Background(), 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestOfferListWithNames(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductSupplierRepository(db)
	ctx := context.Background()

	aceite := testutil.CreateProduct(t, db, "Aceite 1L", "9.90")
	vinagre := testutil.CreateProduct(t, db, "Vinagre", "3.00")
	alicorp := testutil.CreateSupplier(t, db, "Alicorp")
	gloria := testutil.CreateSupplier(t, db, "Gloria")
	testutil.CreateOffer(t, db, aceite.ID, alicorp.ID, "7.40", 3)
	testutil.CreateOffer(t, db, vinagre.ID, gloria.ID, "2.00", 1)
	testutil.CreateOffer(t, db, aceite.ID, gloria.ID, "7.00", 6)

	rows, total, err := repo.List(ctx, OfferFilter{Query: "glor"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Aceite 1L", rows[0].ProductName)
	assert.Equal(t, "Gloria", rows[0].SupplierName)
	assert.Equal(t, "Vinagre", rows[1].ProductName)

	rows, total, err = repo.List(ctx, OfferFilter{ProductID: aceite.ID, SupplierID: alicorp.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].LeadTimeDays)
}

func TestOfferUpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductSupplierRepository(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "Aceite 1L", "9.90")
	s := testutil.CreateSupplier(t, db, "Alicorp")
	testutil.CreateOffer(t, db, p.ID, s.ID, "7.40", 3)

	agreement := "5% off over 100 units"
	update := &model.ProductSupplier{
		ProductID:        p.ID,
		SupplierID:       s.ID,
		CostPrice:        decimal.RequireFromString("6.95"),
		LeadTimeDays:     2,
		SpecialAgreement: &agreement,
	}
	require.NoError(t, repo.Update(ctx, update))

	got, err := repo.Get(ctx, p.ID, s.ID)
	require.NoError(t, err)
	assert.True(t, got.CostPrice.Equal(decimal.RequireFromString("6.95")))
	assert.Equal(t, 2, got.LeadTimeDays)
	require.NotNil(t, got.SpecialAgreement)
	assert.Equal(t, agreement, *got.SpecialAgreement)

	missing := &model.ProductSupplier{ProductID: p.ID, SupplierID: 999}
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID, s.ID))
	_, err = repo.Get(ctx, p.ID, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID, s.ID), ErrNotFound)
}
