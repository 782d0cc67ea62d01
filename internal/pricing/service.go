package pricing

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/foodcourt/internal/apperr"
	"github.com/example/foodcourt/internal/models"
)

// CartService owns all cart mutations and reads. The gorm handle is injected
// so tests can run against an in-memory database.
type CartService struct {
	db     *gorm.DB
	engine *Engine
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db, engine: NewEngine(NewGormPriceSource(db))}
}

// AddItemInput is the validated payload for adding a line to the cart.
type AddItemInput struct {
	MenuItemID   uuid.UUID  `json:"menu_item_id" validate:"required"`
	RestaurantID uuid.UUID  `json:"restaurant_id" validate:"required"`
	Quantity     int        `json:"quantity" validate:"required,min=1"`
	Note         string     `json:"note"`
	Selections   Selections `json:"selections"`
}

// AddItem validates the referenced catalog rows, then upserts on the
// normalized selection set: an identical combination increments quantity,
// anything else inserts a new line. The unique index on (cart, menu item,
// restaurant, selection hash) makes the upsert safe under concurrent adds.
func (s *CartService) AddItem(userID uuid.UUID, in AddItemInput) (*models.CartItem, error) {
	if in.Quantity < 1 {
		return nil, apperr.ValidationMsg("quantity must be at least 1")
	}

	var menuItem models.MenuItem
	if err := s.db.First(&menuItem, "id = ?", in.MenuItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("menu item not found")
		}
		return nil, err
	}

	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, "id = ?", in.RestaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("restaurant not found")
		}
		return nil, err
	}
	if menuItem.RestaurantID != restaurant.ID {
		return nil, apperr.ValidationMsg("menu item does not belong to this restaurant")
	}

	if err := s.validateSelections(menuItem.ID, in.Selections); err != nil {
		return nil, err
	}

	normalized := in.Selections.Normalized()
	raw, err := normalized.JSON()
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		item = models.CartItem{
			CartID:        cart.ID,
			MenuItemID:    menuItem.ID,
			RestaurantID:  restaurant.ID,
			Quantity:      in.Quantity,
			Note:          in.Note,
			Selections:    raw,
			SelectionHash: normalized.Hash(),
		}

		assignments := map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}
		if in.Note != "" {
			assignments["note"] = in.Note
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "cart_id"}, {Name: "menu_item_id"},
				{Name: "restaurant_id"}, {Name: "selection_hash"},
			},
			DoUpdates: clause.Assignments(assignments),
		}).Create(&item).Error
	})
	if err != nil {
		return nil, err
	}

	// Re-read into a fresh struct so an upsert that merged into an existing
	// line returns the merged quantity. Reusing item would pin the query to
	// the id generated for the discarded insert.
	var merged models.CartItem
	if err := s.db.First(&merged, "cart_id = ? AND menu_item_id = ? AND restaurant_id = ? AND selection_hash = ?",
		item.CartID, item.MenuItemID, item.RestaurantID, item.SelectionHash).Error; err != nil {
		return nil, err
	}
	return &merged, nil
}

// UpdateItemInput mutates quantity, note or selections of an existing line.
type UpdateItemInput struct {
	Quantity   *int        `json:"quantity" validate:"omitempty,min=1"`
	Note       *string     `json:"note"`
	Selections *Selections `json:"selections"`
}

// UpdateItem applies a partial update to a line owned by the caller.
func (s *CartService) UpdateItem(userID, itemID uuid.UUID, in UpdateItemInput) (*models.CartItem, error) {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if in.Quantity != nil {
		if *in.Quantity < 1 {
			return nil, apperr.ValidationMsg("quantity must be at least 1")
		}
		item.Quantity = *in.Quantity
	}
	if in.Note != nil {
		item.Note = *in.Note
	}
	if in.Selections != nil {
		if err := s.validateSelections(item.MenuItemID, *in.Selections); err != nil {
			return nil, err
		}
		normalized := in.Selections.Normalized()
		raw, err := normalized.JSON()
		if err != nil {
			return nil, err
		}
		item.Selections = raw
		item.SelectionHash = normalized.Hash()
	}

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes a line owned by the caller.
func (s *CartService) RemoveItem(userID, itemID uuid.UUID) error {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return err
	}
	return s.db.Delete(&models.CartItem{}, "id = ?", item.ID).Error
}

// Clear removes every line from the caller's cart.
func (s *CartService) Clear(userID uuid.UUID) error {
	var cart models.Cart
	if err := s.db.First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.db.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error
}

// Summary loads the cart and prices it against the current catalog.
func (s *CartService) Summary(userID uuid.UUID) (*Summary, error) {
	var cart models.Cart
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.created_at asc")
	}).Preload("Items.MenuItem").Preload("Items.Restaurant").
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			empty := Summarize(uuid.Nil, nil)
			return &empty, nil
		}
		return nil, err
	}

	priced, err := s.engine.Price(cart.Items)
	if err != nil {
		return nil, err
	}
	summary := Summarize(cart.ID, priced)
	return &summary, nil
}

// CartForCheckout returns the cart with items and catalog rows preloaded, plus
// the priced view. Checkout freezes this into orders.
func (s *CartService) CartForCheckout(userID uuid.UUID) (*models.Cart, []PricedItem, error) {
	var cart models.Cart
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.created_at asc")
	}).Preload("Items.MenuItem").Preload("Items.Restaurant").
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("cart is empty")
		}
		return nil, nil, err
	}
	if len(cart.Items) == 0 {
		return nil, nil, apperr.NotFound("cart is empty")
	}

	priced, err := s.engine.Price(cart.Items)
	if err != nil {
		return nil, nil, err
	}
	return &cart, priced, nil
}

func (s *CartService) getOrCreateCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = tx.Create(&cart).Error
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) ownedItem(userID, itemID uuid.UUID) (*models.CartItem, error) {
	var cart models.Cart
	if err := s.db.First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart item not found")
		}
		return nil, err
	}

	var item models.CartItem
	if err := s.db.First(&item, "id = ? AND cart_id = ?", itemID, cart.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart item not found")
		}
		return nil, err
	}
	return &item, nil
}

// validateSelections rejects option ids that don't belong to the menu item.
// Deletions after add are tolerated at pricing time instead.
func (s *CartService) validateSelections(menuItemID uuid.UUID, sel Selections) error {
	varIDs := make([]uuid.UUID, 0, len(sel.Variations))
	for _, v := range sel.Variations {
		varIDs = append(varIDs, v.SelectedOptionID)
	}
	if len(varIDs) > 0 {
		var count int64
		err := s.db.Model(&models.VariationOption{}).
			Joins("JOIN variations ON variations.id = variation_options.variation_id").
			Where("variation_options.id IN ? AND variations.menu_item_id = ?", varIDs, menuItemID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count != int64(len(varIDs)) {
			return apperr.ValidationMsg("selected variation options do not belong to this menu item")
		}
	}

	var addOnIDs []uuid.UUID
	for _, a := range sel.AddOns {
		addOnIDs = append(addOnIDs, a.SelectedOptionIDs...)
	}
	if len(addOnIDs) > 0 {
		var count int64
		err := s.db.Model(&models.AddOnOption{}).
			Joins("JOIN add_ons ON add_ons.id = add_on_options.add_on_id").
			Where("add_on_options.id IN ? AND add_ons.menu_item_id = ?", addOnIDs, menuItemID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count != int64(len(addOnIDs)) {
			return apperr.ValidationMsg("selected add-on options do not belong to this menu item")
		}
	}
	return nil
}
