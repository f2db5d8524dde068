package inventory

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetShop/internal/apperr"
	"sweetShop/internal/testutil"
	"sweetShop/models"
	"sweetShop/repository"
)

func ptr[T any](v T) *T { return &v }

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	return NewCatalog(repository.NewSweetRepository(testutil.OpenInMemoryDB(t, "catalog")), nil)
}

func TestCatalog_CreateValidation(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	cases := []struct {
		name string
		in   NewSweet
		msg  string
	}{
		{"missing name", NewSweet{Category: "C", Price: ptr(1.0), Quantity: ptr(int64(1))}, "Name, category, price, and quantity are required"},
		{"missing price", NewSweet{Name: "N", Category: "C", Quantity: ptr(int64(1))}, "Name, category, price, and quantity are required"},
		{"missing quantity", NewSweet{Name: "N", Category: "C", Price: ptr(1.0)}, "Name, category, price, and quantity are required"},
		{"negative price", NewSweet{Name: "N", Category: "C", Price: ptr(-0.01), Quantity: ptr(int64(1))}, "Price must be a non-negative number"},
		{"nan price", NewSweet{Name: "N", Category: "C", Price: ptr(math.NaN()), Quantity: ptr(int64(1))}, "Price must be a non-negative number"},
		{"negative quantity", NewSweet{Name: "N", Category: "C", Price: ptr(1.0), Quantity: ptr(int64(-1))}, "Quantity must be a non-negative integer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Create(ctx, tc.in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tc.msg, err.Error())
		})
	}

	free, err := c.Create(ctx, NewSweet{Name: " Sample ", Category: "Free", Price: ptr(0.0), Quantity: ptr(int64(0))})
	require.NoError(t, err, "zero price and zero stock are allowed")
	assert.Equal(t, "Sample", free.Name)
}

func TestCatalog_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	s, err := c.Create(ctx, NewSweet{Name: "Gum", Category: "Gummy", Price: ptr(1.0), Quantity: ptr(int64(5)), Description: ptr("chewy")})
	require.NoError(t, err)

	u, err := c.Update(ctx, s.ID, models.SweetPatch{Price: ptr(2.25)})
	require.NoError(t, err)
	assert.Equal(t, 2.25, u.Price)
	assert.Equal(t, "Gum", u.Name)
	require.NotNil(t, u.Description)
	assert.Equal(t, "chewy", *u.Description)

	_, err = c.Update(ctx, s.ID, models.SweetPatch{Price: ptr(-1.0)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = c.Update(ctx, s.ID, models.SweetPatch{Quantity: ptr(int64(-3))})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = c.Update(ctx, s.ID, models.SweetPatch{Name: ptr("   ")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = c.Update(ctx, "missing", models.SweetPatch{Price: ptr(1.0)})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, c.Delete(ctx, s.ID))
	_, err = c.Get(ctx, s.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(c.Delete(ctx, s.ID)))
}

func TestCatalog_SearchCategoryAndMaxPrice(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	mk := func(name, cat string, price float64) *models.Sweet {
		s, err := c.Create(ctx, NewSweet{Name: name, Category: cat, Price: &price, Quantity: ptr(int64(10))})
		require.NoError(t, err)
		return s
	}
	mk("Dark Chocolate Bar", "Chocolate", 3.99)
	milk := mk("Milk Chocolate Bar", "Chocolate", 2.99)
	mk("Gummy Bears", "Gummy", 1.99)
	coin := mk("Chocolate Coin", "Chocolate", 3)

	got, err := c.Search(ctx, models.SweetFilter{Category: "Chocolate", MaxPrice: ptr(3.0)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, milk.ID, got[0].ID)
	assert.Equal(t, coin.ID, got[1].ID)
	for _, s := range got {
		assert.Equal(t, "Chocolate", s.Category)
		assert.LessOrEqual(t, s.Price, 3.0)
	}

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestParseQuantity(t *testing.T) {
	num := func(s string) *json.Number { n := json.Number(s); return &n }

	ok := map[string]int64{"1": 1, "20": 20, "5.0": 5, "1e3": 1000}
	for in, want := range ok {
		got, err := ParseQuantity(num(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	bad := map[string]string{
		"0":     "Quantity must be a positive integer",
		"-4":    "Quantity must be a positive integer",
		"2.5":   "Quantity must be a positive integer",
		"1e300": "Quantity must be a positive integer",
		"":      "Quantity is required",
	}
	for in, msg := range bad {
		_, err := ParseQuantity(num(in))
		require.Error(t, err, in)
		assert.Equal(t, msg, err.Error(), in)
	}
	_, err := ParseQuantity(nil)
	assert.EqualError(t, err, "Quantity is required")
}

func TestParseStock(t *testing.T) {
	n := json.Number("0")
	v, err := ParseStock(&n)
	require.NoError(t, err)
	assert.Zero(t, v)

	for _, in := range []string{"-1", "1.5"} {
		n := json.Number(in)
		_, err := ParseStock(&n)
		assert.EqualError(t, err, "Quantity must be a non-negative integer", in)
	}
}
