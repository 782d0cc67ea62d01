package orderstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/apperr"
	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/pricing"
)

func seedMenuItem(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, name, price string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		BasePrice:    dec(price),
		IsAvailable:  true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func newCheckout(db *gorm.DB, notifier Notifier) (*CheckoutService, *pricing.CartService) {
	carts := pricing.NewCartService(db)
	return NewCheckoutService(db, carts, notifier, dec("0.08"), dec("2.50")), carts
}

func TestCheckoutSplitsCartPerRestaurant(t *testing.T) {
	db := testDB(t)
	svc, carts := newCheckout(db, nil)
	userID := uuid.New()

	grill := models.Restaurant{Name: "Grill House", OwnerID: uuid.New()}
	sushi := models.Restaurant{Name: "Sushi Bar", OwnerID: uuid.New()}
	require.NoError(t, db.Create(&grill).Error)
	require.NoError(t, db.Create(&sushi).Error)

	burger := seedMenuItem(t, db, grill.ID, "Burger", "5.80")
	rolls := seedMenuItem(t, db, sushi.ID, "Rolls", "9.00")

	_, err := carts.AddItem(userID, pricing.AddItemInput{
		MenuItemID: burger.ID, RestaurantID: grill.ID, Quantity: 2,
	})
	require.NoError(t, err)
	_, err = carts.AddItem(userID, pricing.AddItemInput{
		MenuItemID: rolls.ID, RestaurantID: sushi.ID, Quantity: 1,
	})
	require.NoError(t, err)

	orders, err := svc.Checkout(context.Background(), userID, CheckoutInput{
		PaymentMethod:   models.PaymentCash,
		DeliveryAddress: "Unit 12, Central Mall",
	})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	byRestaurant := map[uuid.UUID]models.Order{}
	for _, o := range orders {
		byRestaurant[o.RestaurantID] = o
	}

	grillOrder := byRestaurant[grill.ID]
	assert.Equal(t, models.OrderPending, grillOrder.Status)
	assert.Equal(t, models.PaymentStatusPending, grillOrder.PaymentStatus)
	assert.True(t, grillOrder.Subtotal.Equal(dec("11.60")), "subtotal: got %s", grillOrder.Subtotal)
	assert.True(t, grillOrder.Tax.Equal(dec("0.93")), "tax: got %s", grillOrder.Tax)
	assert.True(t, grillOrder.Total.Equal(dec("15.03")), "total: got %s", grillOrder.Total)
	require.Len(t, grillOrder.Items, 1)
	assert.Equal(t, "Burger", grillOrder.Items[0].ItemName)
	assert.Equal(t, 2, grillOrder.Items[0].Quantity)

	sushiOrder := byRestaurant[sushi.ID]
	assert.True(t, sushiOrder.Subtotal.Equal(dec("9.00")), "subtotal: got %s", sushiOrder.Subtotal)

	// The cart is cleared in the same transaction.
	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&remaining).Error)
	assert.EqualValues(t, 0, remaining)
}

func TestCheckoutFreezesPricesAgainstLaterCatalogChanges(t *testing.T) {
	db := testDB(t)
	svc, carts := newCheckout(db, nil)
	userID := uuid.New()

	grill := models.Restaurant{Name: "Grill House", OwnerID: uuid.New()}
	require.NoError(t, db.Create(&grill).Error)
	burger := seedMenuItem(t, db, grill.ID, "Burger", "5.80")

	_, err := carts.AddItem(userID, pricing.AddItemInput{
		MenuItemID: burger.ID, RestaurantID: grill.ID, Quantity: 1,
	})
	require.NoError(t, err)

	orders, err := svc.Checkout(context.Background(), userID, CheckoutInput{
		PaymentMethod:   models.PaymentCash,
		DeliveryAddress: "Unit 12",
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	require.NoError(t, db.Model(&models.MenuItem{}).
		Where("id = ?", burger.ID).
		Update("base_price", dec("9.99")).Error)

	var frozen models.OrderItem
	require.NoError(t, db.First(&frozen, "order_id = ?", orders[0].ID).Error)
	assert.True(t, frozen.UnitPrice.Equal(dec("5.80")), "unit price: got %s", frozen.UnitPrice)
}

func TestCheckoutCardStartsPaidWithIntent(t *testing.T) {
	db := testDB(t)
	svc, carts := newCheckout(db, nil)
	userID := uuid.New()

	grill := models.Restaurant{Name: "Grill House", OwnerID: uuid.New()}
	require.NoError(t, db.Create(&grill).Error)
	burger := seedMenuItem(t, db, grill.ID, "Burger", "5.80")

	_, err := carts.AddItem(userID, pricing.AddItemInput{
		MenuItemID: burger.ID, RestaurantID: grill.ID, Quantity: 1,
	})
	require.NoError(t, err)

	orders, err := svc.Checkout(context.Background(), userID, CheckoutInput{
		PaymentMethod:   models.PaymentCard,
		PaymentIntentID: "pi_456",
		DeliveryAddress: "Unit 12",
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, models.PaymentStatusPaid, orders[0].PaymentStatus)
	assert.Equal(t, "pi_456", orders[0].PaymentIntentID)
	assert.NotNil(t, orders[0].PaidAt)
}

func TestCheckoutCardRequiresIntent(t *testing.T) {
	db := testDB(t)
	svc, _ := newCheckout(db, nil)

	_, err := svc.Checkout(context.Background(), uuid.New(), CheckoutInput{
		PaymentMethod:   models.PaymentCard,
		DeliveryAddress: "Unit 12",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := testDB(t)
	svc, _ := newCheckout(db, nil)

	_, err := svc.Checkout(context.Background(), uuid.New(), CheckoutInput{
		PaymentMethod:   models.PaymentCash,
		DeliveryAddress: "Unit 12",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}

func TestCheckoutAppliesBestActivePromotion(t *testing.T) {
	db := testDB(t)
	svc, carts := newCheckout(db, nil)
	userID := uuid.New()

	grill := models.Restaurant{Name: "Grill House", OwnerID: uuid.New()}
	require.NoError(t, db.Create(&grill).Error)
	burger := seedMenuItem(t, db, grill.ID, "Burger", "5.80")

	now := time.Now()
	weak := models.Promotion{
		RestaurantID: grill.ID, Title: "5% off", DiscountType: models.DiscountPercent,
		Value: dec("5"), StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour), IsActive: true,
	}
	strong := models.Promotion{
		RestaurantID: grill.ID, Title: "10% off", DiscountType: models.DiscountPercent,
		Value: dec("10"), StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour), IsActive: true,
	}
	expired := models.Promotion{
		RestaurantID: grill.ID, Title: "50% off", DiscountType: models.DiscountPercent,
		Value: dec("50"), StartsAt: now.Add(-48 * time.Hour), EndsAt: now.Add(-24 * time.Hour), IsActive: true,
	}
	require.NoError(t, db.Create(&weak).Error)
	require.NoError(t, db.Create(&strong).Error)
	require.NoError(t, db.Create(&expired).Error)

	_, err := carts.AddItem(userID, pricing.AddItemInput{
		MenuItemID: burger.ID, RestaurantID: grill.ID, Quantity: 2,
	})
	require.NoError(t, err)

	orders, err := svc.Checkout(context.Background(), userID, CheckoutInput{
		PaymentMethod:   models.PaymentCash,
		DeliveryAddress: "Unit 12",
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	// 10% of 11.60 = 1.16; tax on 10.44 at 8% = 0.84; plus 2.50 delivery.
	assert.True(t, order.Discount.Equal(dec("1.16")), "discount: got %s", order.Discount)
	assert.True(t, order.Tax.Equal(dec("0.84")), "tax: got %s", order.Tax)
	assert.True(t, order.Total.Equal(dec("13.78")), "total: got %s", order.Total)
}

func TestCheckoutNotifiesPerOrderAndSwallowsFailures(t *testing.T) {
	db := testDB(t)
	notifier := &fakeNotifier{err: errors.New("telegram unreachable")}
	svc, carts := newCheckout(db, notifier)
	userID := uuid.New()

	grill := models.Restaurant{Name: "Grill House", OwnerID: uuid.New()}
	require.NoError(t, db.Create(&grill).Error)
	burger := seedMenuItem(t, db, grill.ID, "Burger", "5.80")

	_, err := carts.AddItem(userID, pricing.AddItemInput{
		MenuItemID: burger.ID, RestaurantID: grill.ID, Quantity: 1,
	})
	require.NoError(t, err)

	orders, err := svc.Checkout(context.Background(), userID, CheckoutInput{
		PaymentMethod:   models.PaymentCash,
		DeliveryAddress: "Unit 12",
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 1, notifier.userCalls)
}
