package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	oolong = Product{ID: "1", Name: "Golden Oolong Milk Tea", Price: 550, Category: CategoryMilkTea, IsDrink: true}
	crepe  = Product{ID: "5", Name: "Matcha Crepe Cake", Price: 795, Category: CategoryDessert}
)

func TestNewCustomization_Defaults(t *testing.T) {
	for _, p := range []Product{oolong, crepe} {
		c := NewCustomization(p)

		assert.Equal(t, SugarRegular, c.Sugar)
		assert.Equal(t, IceRegular, c.Ice)
		assert.Empty(t, c.Toppings)
		assert.Equal(t, 1, c.Quantity)
		assert.Equal(t, CustomizationInitialized, c.State)
		assert.True(t, c.Open())
	}
}

func TestToggleTopping_AddsThenRemoves(t *testing.T) {
	c := NewCustomization(oolong)

	require.NoError(t, c.ToggleTopping(boba))
	assert.True(t, c.HasTopping("boba"))
	assert.Equal(t, CustomizationEditing, c.State)

	require.NoError(t, c.ToggleTopping(boba))
	assert.False(t, c.HasTopping("boba"))
	assert.Empty(t, c.Toppings)
}

func TestToggleTopping_SelfInverse(t *testing.T) {
	c := NewCustomization(oolong)
	require.NoError(t, c.ToggleTopping(boba))
	require.NoError(t, c.ToggleTopping(foam))
	before := append([]Topping(nil), c.Toppings...)

	require.NoError(t, c.ToggleTopping(pudding))
	require.NoError(t, c.ToggleTopping(pudding))

	assert.Equal(t, before, c.Toppings)
}

func TestToggleTopping_MatchesByIdentity(t *testing.T) {
	c := NewCustomization(oolong)
	require.NoError(t, c.ToggleTopping(boba))

	// Same ID, different fields: still the same topping.
	require.NoError(t, c.ToggleTopping(Topping{ID: "boba"}))
	assert.Empty(t, c.Toppings)
}

func TestToggleTopping_PreservesOrder(t *testing.T) {
	c := NewCustomization(oolong)
	require.NoError(t, c.ToggleTopping(foam))
	require.NoError(t, c.ToggleTopping(boba))
	require.NoError(t, c.ToggleTopping(pudding))
	require.NoError(t, c.ToggleTopping(boba))

	require.Len(t, c.Toppings, 2)
	assert.Equal(t, "foam", c.Toppings[0].ID)
	assert.Equal(t, "pudding", c.Toppings[1].ID)
}

func TestQuantity_FloorsAtOne(t *testing.T) {
	c := NewCustomization(oolong)

	require.NoError(t, c.Decrement())
	assert.Equal(t, 1, c.Quantity)

	require.NoError(t, c.Increment())
	require.NoError(t, c.Increment())
	assert.Equal(t, 3, c.Quantity)

	require.NoError(t, c.AdjustQuantity(-10))
	assert.Equal(t, 1, c.Quantity)
}

func TestQuantity_SaturatesAtMax(t *testing.T) {
	c := NewCustomization(oolong)
	require.NoError(t, c.AdjustQuantity(MaxQuantity-2))
	assert.Equal(t, MaxQuantity-1, c.Quantity)

	require.NoError(t, c.Increment())
	assert.Equal(t, MaxQuantity, c.Quantity)
	require.NoError(t, c.Increment())
	assert.Equal(t, MaxQuantity, c.Quantity)

	require.NoError(t, c.SetQuantity(5))
	require.NoError(t, c.AdjustQuantity(math.MaxInt))
	assert.Equal(t, MaxQuantity, c.Quantity)

	require.NoError(t, c.AdjustQuantity(math.MinInt))
	assert.Equal(t, 1, c.Quantity)
}

func TestCommit_AtMaxQuantityKeepsTotalsPositive(t *testing.T) {
	c := NewCustomization(oolong)
	require.NoError(t, c.ToggleTopping(boba))
	require.NoError(t, c.SetQuantity(MaxQuantity))

	item, err := c.Commit("line-1")
	require.NoError(t, err)
	assert.Equal(t, int64(600*MaxQuantity), item.TotalPrice)

	cart := &Cart{}
	cart.Add(item)
	totals := cart.Totals()
	assert.Positive(t, totals.Tax)
	assert.Equal(t, Tax(totals.Subtotal), totals.Tax)
	assert.Equal(t, totals.Subtotal+totals.Tax, totals.Total)
}

func TestCustomization_LivePrice(t *testing.T) {
	c := NewCustomization(oolong)
	require.NoError(t, c.ToggleTopping(boba))
	require.NoError(t, c.ToggleTopping(foam))
	require.NoError(t, c.AdjustQuantity(1))

	assert.Equal(t, int64(700), c.UnitPrice())
	assert.Equal(t, int64(1400), c.TotalPrice())
}

func TestCommit_Drink(t *testing.T) {
	c := NewCustomization(oolong)
	require.NoError(t, c.SetSugar(SugarHalf))
	require.NoError(t, c.SetIce(IceLess))
	require.NoError(t, c.ToggleTopping(pudding))
	require.NoError(t, c.Increment())

	item, err := c.Commit("item-1")

	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
	require.NotNil(t, item.Drink)
	assert.Equal(t, SugarHalf, item.Drink.Sugar)
	assert.Equal(t, IceLess, item.Drink.Ice)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, int64(625), item.UnitPrice)
	assert.Equal(t, int64(1250), item.TotalPrice)
	assert.Equal(t, CustomizationCommitted, c.State)
	assert.False(t, c.Open())
}

func TestCommit_NonDrinkOmitsDrinkOptions(t *testing.T) {
	c := NewCustomization(crepe)
	require.NoError(t, c.SetSugar(SugarZero))

	item, err := c.Commit("item-2")

	require.NoError(t, err)
	assert.Nil(t, item.Drink)
	assert.Equal(t, int64(795), item.TotalPrice)
}

func TestCommit_SnapshotIsIndependent(t *testing.T) {
	c := NewCustomization(oolong)
	require.NoError(t, c.ToggleTopping(boba))

	item, err := c.Commit("item-3")
	require.NoError(t, err)

	c.Toppings[0] = foam
	assert.Equal(t, "boba", item.Toppings[0].ID)
}

func TestClosedCustomization_RejectsChanges(t *testing.T) {
	committed := NewCustomization(oolong)
	_, err := committed.Commit("x")
	require.NoError(t, err)

	discarded := NewCustomization(oolong)
	discarded.Discard()
	assert.Equal(t, CustomizationDiscarded, discarded.State)

	for _, c := range []*Customization{committed, discarded} {
		assert.ErrorIs(t, c.SetSugar(SugarZero), ErrCustomizationClosed)
		assert.ErrorIs(t, c.SetIce(IceHot), ErrCustomizationClosed)
		assert.ErrorIs(t, c.ToggleTopping(boba), ErrCustomizationClosed)
		assert.ErrorIs(t, c.Increment(), ErrCustomizationClosed)
		_, err := c.Commit("y")
		assert.ErrorIs(t, err, ErrCustomizationClosed)
	}
}

func TestDiscard_AfterCommitKeepsCommitted(t *testing.T) {
	c := NewCustomization(oolong)
	_, err := c.Commit("x")
	require.NoError(t, err)

	c.Discard()
	assert.Equal(t, CustomizationCommitted, c.State)
}

func TestLevelValidation(t *testing.T) {
	assert.True(t, SugarLevel("70%").Valid())
	assert.False(t, SugarLevel("90%").Valid())
	assert.True(t, IceLevel("Hot").Valid())
	assert.False(t, IceLevel("Lukewarm").Valid())
}

func TestSetQuantity(t *testing.T) {
	c := NewCustomization(oolong)

	require.NoError(t, c.SetQuantity(4))
	assert.Equal(t, 4, c.Quantity)
	assert.Equal(t, CustomizationEditing, c.State)

	assert.ErrorIs(t, c.SetQuantity(0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQuantity(MaxQuantity+1), ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQuantity(math.MaxInt), ErrInvalidQuantity)
	assert.Equal(t, 4, c.Quantity)

	require.NoError(t, c.SetQuantity(MaxQuantity))
	assert.Equal(t, MaxQuantity, c.Quantity)

	c.Discard()
	assert.ErrorIs(t, c.SetQuantity(2), ErrCustomizationClosed)
}
