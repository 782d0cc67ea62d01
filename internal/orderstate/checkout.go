package orderstate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/apperr"
	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/pricing"
)

// CheckoutService freezes a priced cart into immutable orders, one per
// restaurant, inside a single transaction.
type CheckoutService struct {
	db          *gorm.DB
	carts       *pricing.CartService
	notifier    Notifier
	taxRate     decimal.Decimal
	deliveryFee decimal.Decimal
}

func NewCheckoutService(db *gorm.DB, carts *pricing.CartService, notifier Notifier,
	taxRate, deliveryFee decimal.Decimal) *CheckoutService {
	return &CheckoutService{
		db:          db,
		carts:       carts,
		notifier:    notifier,
		taxRate:     taxRate,
		deliveryFee: deliveryFee,
	}
}

// CheckoutInput is the validated checkout payload.
type CheckoutInput struct {
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=CASH CARD"`
	PaymentIntentID string `json:"payment_intent_id"`
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	Instructions    string `json:"instructions"`
}

// Checkout snapshots the cart into orders at current catalog prices, applies
// the best active promotion per restaurant, and clears the cart. Card orders
// arrive already charged (the gateway confirmed the intent upstream) and start
// PAID; cash orders start PENDING.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, in CheckoutInput) ([]models.Order, error) {
	method := strings.ToUpper(in.PaymentMethod)
	if method != models.PaymentCash && method != models.PaymentCard {
		return nil, apperr.ValidationMsg("payment method must be CASH or CARD")
	}
	if method == models.PaymentCard && in.PaymentIntentID == "" {
		return nil, apperr.ValidationMsg("card payment requires a payment intent reference")
	}

	cart, priced, err := s.carts.CartForCheckout(userID)
	if err != nil {
		return nil, err
	}
	summary := pricing.Summarize(cart.ID, priced)

	now := time.Now()
	promos, err := s.activePromotions(restaurantIDs(summary), now)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, group := range summary.Restaurants {
			subtotal := group.Subtotal
			discount := decimal.Zero
			if promo, ok := promos[group.RestaurantID]; ok {
				discount = promo.Apply(subtotal).Round(2)
			}
			tax := subtotal.Sub(discount).Mul(s.taxRate).Round(2)
			total := subtotal.Sub(discount).Add(tax).Add(s.deliveryFee).Round(2)

			order := models.Order{
				OrderNumber:     newOrderNumber(),
				UserID:          userID,
				RestaurantID:    group.RestaurantID,
				Status:          models.OrderPending,
				PaymentMethod:   method,
				PaymentStatus:   models.PaymentStatusPending,
				Subtotal:        subtotal,
				Tax:             tax,
				DeliveryFee:     s.deliveryFee,
				Discount:        discount,
				Total:           total,
				DeliveryAddress: in.DeliveryAddress,
				Instructions:    in.Instructions,
				PlacedAt:        now,
			}
			if method == models.PaymentCard {
				order.PaymentStatus = models.PaymentStatusPaid
				order.PaymentIntentID = in.PaymentIntentID
				order.PaidAt = &now
			}

			for _, item := range group.Items {
				menuItemID := item.MenuItemID
				order.Items = append(order.Items, models.OrderItem{
					MenuItemID: &menuItemID,
					ItemName:   item.Name,
					UnitPrice:  item.UnitPrice.Round(2),
					Quantity:   item.Quantity,
					TotalPrice: item.LineTotal.Round(2),
					Note:       item.Note,
				})
			}

			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			orders = append(orders, order)
		}

		return tx.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		for i := range orders {
			if err := s.notifier.NotifyUserOrderStatus(&orders[i]); err != nil {
				logger.Warn().Err(err).
					Str("order_id", orders[i].ID.String()).
					Msg("order placed notification failed")
			}
		}
	}
	return orders, nil
}

// activePromotions returns the best active promotion per restaurant, measured
// against a reference subtotal of 100 so percent and fixed discounts compare.
func (s *CheckoutService) activePromotions(ids []uuid.UUID, at time.Time) (map[uuid.UUID]*models.Promotion, error) {
	out := map[uuid.UUID]*models.Promotion{}
	if len(ids) == 0 {
		return out, nil
	}
	var promos []models.Promotion
	err := s.db.
		Where("restaurant_id IN ? AND is_active = ? AND starts_at <= ? AND ends_at >= ?",
			ids, true, at, at).
		Find(&promos).Error
	if err != nil {
		return nil, err
	}

	reference := decimal.NewFromInt(100)
	for i := range promos {
		p := &promos[i]
		current, ok := out[p.RestaurantID]
		if !ok || p.Apply(reference).GreaterThan(current.Apply(reference)) {
			out[p.RestaurantID] = p
		}
	}
	return out, nil
}

func restaurantIDs(summary pricing.Summary) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(summary.Restaurants))
	for _, g := range summary.Restaurants {
		ids = append(ids, g.RestaurantID)
	}
	return ids
}

func newOrderNumber() string {
	return fmt.Sprintf("FC-%d-%04X", time.Now().Unix(), uuid.New().ID()&0xFFFF)
}
