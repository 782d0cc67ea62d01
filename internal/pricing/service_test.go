package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/foodcourt/internal/apperr"
	"github.com/example/foodcourt/internal/database"
	"github.com/example/foodcourt/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type catalog struct {
	restaurant models.Restaurant
	burger     models.MenuItem
	sizeLarge  models.VariationOption
	cheese     models.AddOnOption
}

// seedCatalog creates a restaurant with one menu item: base 4.40, a Size
// variation with a +1.00 Large option and a +0.40 Cheese add-on option.
func seedCatalog(t *testing.T, db *gorm.DB) catalog {
	t.Helper()

	restaurant := models.Restaurant{Name: "Grill House", OwnerID: uuid.New()}
	require.NoError(t, db.Create(&restaurant).Error)

	burger := models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         "Burger",
		BasePrice:    dec("4.40"),
		IsAvailable:  true,
	}
	require.NoError(t, db.Create(&burger).Error)

	size := models.Variation{MenuItemID: burger.ID, Name: "Size", IsRequired: true}
	require.NoError(t, db.Create(&size).Error)
	large := models.VariationOption{VariationID: size.ID, Name: "Large", PriceModifier: dec("1.00")}
	require.NoError(t, db.Create(&large).Error)

	extras := models.AddOn{MenuItemID: burger.ID, Name: "Extras"}
	require.NoError(t, db.Create(&extras).Error)
	cheese := models.AddOnOption{AddOnID: extras.ID, Name: "Cheese", Price: dec("0.40")}
	require.NoError(t, db.Create(&cheese).Error)

	return catalog{restaurant: restaurant, burger: burger, sizeLarge: large, cheese: cheese}
}

func (c catalog) selections() Selections {
	return Selections{
		Variations: []VariationSelection{
			{VariationID: c.sizeLarge.VariationID, SelectedOptionID: c.sizeLarge.ID},
		},
		AddOns: []AddOnSelection{
			{AddOnID: c.cheese.AddOnID, SelectedOptionIDs: []uuid.UUID{c.cheese.ID}},
		},
	}
}

func TestAddItemMergesIdenticalSelections(t *testing.T) {
	db := testDB(t)
	cat := seedCatalog(t, db)
	svc := NewCartService(db)
	userID := uuid.New()

	first, err := svc.AddItem(userID, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: cat.restaurant.ID,
		Quantity:     2,
		Selections:   cat.selections(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	// Same combination in a different declaration order merges.
	second, err := svc.AddItem(userID, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: cat.restaurant.ID,
		Quantity:     3,
		Selections: Selections{
			AddOns: []AddOnSelection{
				{AddOnID: cat.cheese.AddOnID, SelectedOptionIDs: []uuid.UUID{cat.cheese.ID}},
			},
			Variations: []VariationSelection{
				{VariationID: cat.sizeLarge.VariationID, SelectedOptionID: cat.sizeLarge.ID},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	// The stored row matches what the merge returned.
	var stored models.CartItem
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, 5, stored.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemDifferentSelectionsCreateSeparateLines(t *testing.T) {
	db := testDB(t)
	cat := seedCatalog(t, db)
	svc := NewCartService(db)
	userID := uuid.New()

	_, err := svc.AddItem(userID, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: cat.restaurant.ID,
		Quantity:     1,
		Selections:   cat.selections(),
	})
	require.NoError(t, err)

	// Same item without the cheese is a distinct line.
	_, err = svc.AddItem(userID, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: cat.restaurant.ID,
		Quantity:     1,
		Selections: Selections{
			Variations: []VariationSelection{
				{VariationID: cat.sizeLarge.VariationID, SelectedOptionID: cat.sizeLarge.ID},
			},
		},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAddItemValidation(t *testing.T) {
	db := testDB(t)
	cat := seedCatalog(t, db)
	svc := NewCartService(db)
	userID := uuid.New()

	_, err := svc.AddItem(userID, AddItemInput{
		MenuItemID:   uuid.New(),
		RestaurantID: cat.restaurant.ID,
		Quantity:     1,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "unknown menu item: got %v", err)

	_, err = svc.AddItem(userID, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: uuid.New(),
		Quantity:     1,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "unknown restaurant: got %v", err)

	other := models.Restaurant{Name: "Sushi Bar", OwnerID: uuid.New()}
	require.NoError(t, db.Create(&other).Error)
	_, err = svc.AddItem(userID, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: other.ID,
		Quantity:     1,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "wrong restaurant: got %v", err)

	_, err = svc.AddItem(userID, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: cat.restaurant.ID,
		Quantity:     1,
		Selections: Selections{
			Variations: []VariationSelection{
				{VariationID: cat.sizeLarge.VariationID, SelectedOptionID: uuid.New()},
			},
		},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "foreign option: got %v", err)
}

func TestSummaryPricesAgainstCurrentCatalog(t *testing.T) {
	db := testDB(t)
	cat := seedCatalog(t, db)
	svc := NewCartService(db)
	userID := uuid.New()

	_, err := svc.AddItem(userID, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: cat.restaurant.ID,
		Quantity:     2,
		Selections:   cat.selections(),
	})
	require.NoError(t, err)

	summary, err := svc.Summary(userID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalItems)
	require.Len(t, summary.Restaurants, 1)
	item := summary.Restaurants[0].Items[0]
	assert.True(t, item.UnitPrice.Equal(dec("5.80")), "unit price: got %s", item.UnitPrice)
	assert.True(t, summary.TotalPrice.Equal(dec("11.60")), "total: got %s", summary.TotalPrice)

	// A catalog price change applies to the open cart on the next read.
	require.NoError(t, db.Model(&models.MenuItem{}).
		Where("id = ?", cat.burger.ID).
		Update("base_price", dec("5.40")).Error)

	summary, err = svc.Summary(userID)
	require.NoError(t, err)
	assert.True(t, summary.TotalPrice.Equal(dec("13.60")), "total: got %s", summary.TotalPrice)
}

func TestSummaryWithoutCartIsEmpty(t *testing.T) {
	db := testDB(t)
	svc := NewCartService(db)

	summary, err := svc.Summary(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalItems)
	assert.True(t, summary.TotalPrice.IsZero())
}

func TestUpdateAndRemoveItemRequireOwnership(t *testing.T) {
	db := testDB(t)
	cat := seedCatalog(t, db)
	svc := NewCartService(db)
	owner := uuid.New()
	stranger := uuid.New()

	item, err := svc.AddItem(owner, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: cat.restaurant.ID,
		Quantity:     1,
	})
	require.NoError(t, err)

	qty := 4
	_, err = svc.UpdateItem(stranger, item.ID, UpdateItemInput{Quantity: &qty})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "foreign update: got %v", err)

	err = svc.RemoveItem(stranger, item.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "foreign remove: got %v", err)

	updated, err := svc.UpdateItem(owner, item.ID, UpdateItemInput{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	require.NoError(t, svc.RemoveItem(owner, item.ID))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestClearEmptiesTheCart(t *testing.T) {
	db := testDB(t)
	cat := seedCatalog(t, db)
	svc := NewCartService(db)
	userID := uuid.New()

	_, err := svc.AddItem(userID, AddItemInput{
		MenuItemID:   cat.burger.ID,
		RestaurantID: cat.restaurant.ID,
		Quantity:     1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(userID))

	summary, err := svc.Summary(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalItems)

	// Clearing a user with no cart is fine.
	require.NoError(t, svc.Clear(uuid.New()))
}
