package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodcourt/internal/models"
)

type stubPriceSource struct {
	variations map[uuid.UUID]decimal.Decimal
	addOns     map[uuid.UUID]decimal.Decimal
	calls      int
}

func (s *stubPriceSource) VariationOptionPrices(ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	s.calls++
	return s.variations, nil
}

func (s *stubPriceSource) AddOnOptionPrices(ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	s.calls++
	return s.addOns, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestResolveUnitPrice(t *testing.T) {
	largeOpt := uuid.New()
	cheeseOpt := uuid.New()

	varPrices := map[uuid.UUID]decimal.Decimal{largeOpt: dec("1.00")}
	addOnPrices := map[uuid.UUID]decimal.Decimal{cheeseOpt: dec("0.40")}

	sel := Selections{
		Variations: []VariationSelection{{VariationID: uuid.New(), SelectedOptionID: largeOpt}},
		AddOns:     []AddOnSelection{{AddOnID: uuid.New(), SelectedOptionIDs: []uuid.UUID{cheeseOpt}}},
	}

	unit := ResolveUnitPrice(dec("4.40"), sel, varPrices, addOnPrices)
	assert.True(t, unit.Equal(dec("5.80")), "unit price: got %s", unit)

	// Two of them come to 11.60.
	line := unit.Mul(decimal.NewFromInt(2))
	assert.True(t, line.Equal(dec("11.60")), "line total: got %s", line)
}

func TestResolveUnitPriceMissingOptionsContributeZero(t *testing.T) {
	sel := Selections{
		Variations: []VariationSelection{{VariationID: uuid.New(), SelectedOptionID: uuid.New()}},
		AddOns:     []AddOnSelection{{AddOnID: uuid.New(), SelectedOptionIDs: []uuid.UUID{uuid.New()}}},
	}

	unit := ResolveUnitPrice(dec("7.25"), sel, nil, nil)
	assert.True(t, unit.Equal(dec("7.25")), "unit price: got %s", unit)
}

func TestResolveUnitPriceNegativeModifier(t *testing.T) {
	smallOpt := uuid.New()
	varPrices := map[uuid.UUID]decimal.Decimal{smallOpt: dec("-0.50")}

	sel := Selections{
		Variations: []VariationSelection{{VariationID: uuid.New(), SelectedOptionID: smallOpt}},
	}

	unit := ResolveUnitPrice(dec("4.40"), sel, varPrices, nil)
	assert.True(t, unit.Equal(dec("3.90")), "unit price: got %s", unit)
}

func TestPriceBatchesLookups(t *testing.T) {
	largeOpt := uuid.New()
	cheeseOpt := uuid.New()
	source := &stubPriceSource{
		variations: map[uuid.UUID]decimal.Decimal{largeOpt: dec("1.00")},
		addOns:     map[uuid.UUID]decimal.Decimal{cheeseOpt: dec("0.40")},
	}
	engine := NewEngine(source)

	menuItem := &models.MenuItem{Name: "Burger", BasePrice: dec("4.40")}
	restaurant := &models.Restaurant{Name: "Grill House"}

	sel := Selections{
		Variations: []VariationSelection{{VariationID: uuid.New(), SelectedOptionID: largeOpt}},
		AddOns:     []AddOnSelection{{AddOnID: uuid.New(), SelectedOptionIDs: []uuid.UUID{cheeseOpt}}},
	}
	raw, err := sel.JSON()
	require.NoError(t, err)

	items := make([]models.CartItem, 5)
	for i := range items {
		items[i] = models.CartItem{
			MenuItem:   menuItem,
			Restaurant: restaurant,
			Quantity:   2,
			Selections: raw,
		}
	}

	priced, err := engine.Price(items)
	require.NoError(t, err)
	require.Len(t, priced, 5)

	// One lookup per option kind, no matter how many items.
	assert.Equal(t, 2, source.calls)
	for _, p := range priced {
		assert.True(t, p.UnitPrice.Equal(dec("5.80")), "unit price: got %s", p.UnitPrice)
		assert.True(t, p.LineTotal.Equal(dec("11.60")), "line total: got %s", p.LineTotal)
	}
}

func TestSummarizeGroupsByRestaurantInFirstOccurrenceOrder(t *testing.T) {
	grill := uuid.New()
	sushi := uuid.New()

	items := []PricedItem{
		{RestaurantID: grill, RestaurantName: "Grill House", UnitPrice: dec("5.80"), Quantity: 2, LineTotal: dec("11.60")},
		{RestaurantID: sushi, RestaurantName: "Sushi Bar", UnitPrice: dec("9.00"), Quantity: 1, LineTotal: dec("9.00")},
		{RestaurantID: grill, RestaurantName: "Grill House", UnitPrice: dec("3.25"), Quantity: 1, LineTotal: dec("3.25")},
	}

	summary := Summarize(uuid.New(), items)

	assert.Equal(t, 3, summary.TotalItems)
	require.Len(t, summary.Restaurants, 2)

	assert.Equal(t, grill, summary.Restaurants[0].RestaurantID)
	assert.True(t, summary.Restaurants[0].Subtotal.Equal(dec("14.85")),
		"grill subtotal: got %s", summary.Restaurants[0].Subtotal)
	assert.Len(t, summary.Restaurants[0].Items, 2)

	assert.Equal(t, sushi, summary.Restaurants[1].RestaurantID)
	assert.True(t, summary.Restaurants[1].Subtotal.Equal(dec("9.00")),
		"sushi subtotal: got %s", summary.Restaurants[1].Subtotal)

	assert.True(t, summary.TotalPrice.Equal(dec("23.85")), "total: got %s", summary.TotalPrice)
}

func TestSummarizeRoundsOnceAtTopLevel(t *testing.T) {
	r := uuid.New()
	// Three thirds of a cent accumulate exactly before the single rounding.
	items := []PricedItem{
		{RestaurantID: r, LineTotal: dec("0.3333")},
		{RestaurantID: r, LineTotal: dec("0.3333")},
		{RestaurantID: r, LineTotal: dec("0.3334")},
	}

	summary := Summarize(uuid.New(), items)
	assert.True(t, summary.TotalPrice.Equal(dec("1.00")), "total: got %s", summary.TotalPrice)
	assert.True(t, summary.Restaurants[0].Subtotal.Equal(dec("1.00")),
		"subtotal: got %s", summary.Restaurants[0].Subtotal)
}

func TestSummarizeEmptyCart(t *testing.T) {
	summary := Summarize(uuid.Nil, nil)
	assert.Equal(t, 0, summary.TotalItems)
	assert.NotNil(t, summary.Restaurants)
	assert.True(t, summary.TotalPrice.IsZero())
}
