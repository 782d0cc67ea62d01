package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/foodcourt/internal/models"
)

// PriceSource resolves option prices in bulk. Ids that no longer exist simply
// don't appear in the result map.
type PriceSource interface {
	VariationOptionPrices(ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	AddOnOptionPrices(ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// Engine computes cart prices from current catalog state. It holds no cache:
// every call recomputes, so catalog price changes apply to open carts until
// checkout freezes them.
type Engine struct {
	prices PriceSource
}

func NewEngine(prices PriceSource) *Engine {
	return &Engine{prices: prices}
}

// PricedItem is a cart item with its unit price resolved against the catalog.
type PricedItem struct {
	ItemID         uuid.UUID       `json:"id"`
	MenuItemID     uuid.UUID       `json:"menu_item_id"`
	Name           string          `json:"name"`
	RestaurantID   uuid.UUID       `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	Quantity       int             `json:"quantity"`
	Note           string          `json:"note,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
	Selections     Selections      `json:"selections"`
}

// RestaurantGroup aggregates one restaurant's share of the cart.
type RestaurantGroup struct {
	RestaurantID   uuid.UUID       `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Items          []PricedItem    `json:"items"`
}

// Summary is the cart-wide view returned to clients and consumed by checkout.
type Summary struct {
	CartID      uuid.UUID         `json:"cart_id"`
	TotalItems  int               `json:"total_items"`
	TotalPrice  decimal.Decimal   `json:"total_price"`
	Restaurants []RestaurantGroup `json:"restaurants"`
}

// ResolveUnitPrice adds every selected variation modifier and add-on option
// price to the base price. Options absent from the lookup maps contribute
// zero; they may have been deleted after being chosen.
func ResolveUnitPrice(base decimal.Decimal, sel Selections,
	varPrices, addOnPrices map[uuid.UUID]decimal.Decimal) decimal.Decimal {

	unit := base
	for _, v := range sel.Variations {
		if p, ok := varPrices[v.SelectedOptionID]; ok {
			unit = unit.Add(p)
		}
	}
	for _, a := range sel.AddOns {
		for _, optID := range a.SelectedOptionIDs {
			if p, ok := addOnPrices[optID]; ok {
				unit = unit.Add(p)
			}
		}
	}
	return unit
}

// Price resolves unit prices for all items with exactly two batched lookups,
// one per option kind, regardless of the number of items. Items must have
// MenuItem and Restaurant preloaded.
func (e *Engine) Price(items []models.CartItem) ([]PricedItem, error) {
	parsed := make([]Selections, len(items))
	varSet := map[uuid.UUID]struct{}{}
	addOnSet := map[uuid.UUID]struct{}{}

	for i, it := range items {
		sel, err := ParseSelections(it.Selections)
		if err != nil {
			return nil, err
		}
		parsed[i] = sel
		for _, v := range sel.Variations {
			varSet[v.SelectedOptionID] = struct{}{}
		}
		for _, a := range sel.AddOns {
			for _, id := range a.SelectedOptionIDs {
				addOnSet[id] = struct{}{}
			}
		}
	}

	varPrices, err := e.prices.VariationOptionPrices(keys(varSet))
	if err != nil {
		return nil, err
	}
	addOnPrices, err := e.prices.AddOnOptionPrices(keys(addOnSet))
	if err != nil {
		return nil, err
	}

	priced := make([]PricedItem, 0, len(items))
	for i, it := range items {
		var base decimal.Decimal
		var name string
		if it.MenuItem != nil {
			base = it.MenuItem.BasePrice
			name = it.MenuItem.Name
		}
		var restaurantName string
		if it.Restaurant != nil {
			restaurantName = it.Restaurant.Name
		}

		unit := ResolveUnitPrice(base, parsed[i], varPrices, addOnPrices)
		priced = append(priced, PricedItem{
			ItemID:         it.ID,
			MenuItemID:     it.MenuItemID,
			Name:           name,
			RestaurantID:   it.RestaurantID,
			RestaurantName: restaurantName,
			Quantity:       it.Quantity,
			Note:           it.Note,
			UnitPrice:      unit,
			LineTotal:      unit.Mul(decimal.NewFromInt(int64(it.Quantity))),
			Selections:     parsed[i],
		})
	}
	return priced, nil
}

// Summarize groups priced items by restaurant in first-occurrence order.
// Accumulation is exact decimal arithmetic; rounding to 2 places happens once,
// at the top level.
func Summarize(cartID uuid.UUID, items []PricedItem) Summary {
	summary := Summary{
		CartID:      cartID,
		TotalItems:  len(items),
		Restaurants: []RestaurantGroup{},
	}

	index := map[uuid.UUID]int{}
	total := decimal.Zero
	for _, it := range items {
		i, ok := index[it.RestaurantID]
		if !ok {
			i = len(summary.Restaurants)
			index[it.RestaurantID] = i
			summary.Restaurants = append(summary.Restaurants, RestaurantGroup{
				RestaurantID:   it.RestaurantID,
				RestaurantName: it.RestaurantName,
			})
		}
		group := &summary.Restaurants[i]
		group.Subtotal = group.Subtotal.Add(it.LineTotal)
		group.Items = append(group.Items, it)
		total = total.Add(it.LineTotal)
	}

	for i := range summary.Restaurants {
		summary.Restaurants[i].Subtotal = summary.Restaurants[i].Subtotal.Round(2)
	}
	summary.TotalPrice = total.Round(2)
	return summary
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
