package orderstate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/apperr"
	"github.com/example/foodcourt/internal/models"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// RefundResult is the gateway's view of an initiated refund.
type RefundResult struct {
	ID     string
	Amount decimal.Decimal
	Status string
}

// Refunder initiates refunds at the external payment gateway.
type Refunder interface {
	RefundOrder(ctx context.Context, orderID uuid.UUID, intentRef string,
		amount decimal.Decimal, actorID uuid.UUID, actorRole string) (*RefundResult, error)
}

// Notifier delivers order-status notifications. Callers swallow its errors:
// order-state changes must never fail because notifications fail.
type Notifier interface {
	NotifyUserOrderStatus(order *models.Order) error
	NotifyRestaurantAndAdminCancelled(order *models.Order) error
}

// Actor identifies who requested a transition.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// Service drives order status transitions over the shared store.
type Service struct {
	db       *gorm.DB
	refunder Refunder
	notifier Notifier
}

func NewService(db *gorm.DB, refunder Refunder, notifier Notifier) *Service {
	return &Service{db: db, refunder: refunder, notifier: notifier}
}

// UpdateStatusInput carries the requested target status and its companions.
type UpdateStatusInput struct {
	Status                string     `json:"status" validate:"required"`
	Reason                string     `json:"reason"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
}

// UpdateStatus applies one transition of the order status machine. The order
// must belong to the given restaurant. The write is guarded on the status the
// transition was validated against, so a concurrent transition loses cleanly.
func (s *Service) UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID,
	actor Actor, in UpdateStatusInput) (*models.Order, error) {

	target := strings.ToUpper(in.Status)

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}
	if order.RestaurantID != restaurantID {
		return nil, apperr.Unauthorized("order does not belong to this restaurant")
	}
	if err := ValidateTransition(order.Status, target); err != nil {
		return nil, err
	}
	if target == models.OrderRejected && strings.TrimSpace(in.Reason) == "" {
		return nil, apperr.ValidationMsg("a reason is required to reject an order")
	}

	from := order.Status
	updates := map[string]interface{}{"status": target}

	now := time.Now()
	switch target {
	case models.OrderAccepted:
		if in.EstimatedDeliveryTime != nil {
			updates["estimated_delivery_time"] = in.EstimatedDeliveryTime
		}
	case models.OrderDelivered:
		updates["actual_delivery_time"] = &now
		// Cash on delivery is presumed collected at handover.
		if order.PaymentMethod == models.PaymentCash && order.PaymentStatus == models.PaymentStatusPending {
			updates["payment_status"] = models.PaymentStatusPaid
			updates["paid_at"] = &now
		}
	case models.OrderRejected:
		instructions := order.Instructions
		if instructions != "" {
			instructions += "\n"
		}
		instructions += "Rejection reason: " + strings.TrimSpace(in.Reason)
		updates["instructions"] = instructions
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidTransition(from, target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-read into a fresh struct: gorm leaves pointer fields from the stale
	// copy in place when the column is NULL.
	var updated models.Order
	if err := s.db.WithContext(ctx).First(&updated, "id = ?", order.ID).Error; err != nil {
		return nil, err
	}

	if target == models.OrderRejected {
		s.maybeRefund(ctx, &updated, actor)
	}
	s.notify(&updated, target == models.OrderRejected)

	return &updated, nil
}

// UpdatePaymentStatusInput carries the requested payment status.
type UpdatePaymentStatusInput struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
	Reason        string `json:"reason"`
}

// UpdatePaymentStatus applies one transition of the cash payment machine.
// Card orders are rejected outright; their payment state belongs to the
// gateway flow.
func (s *Service) UpdatePaymentStatus(ctx context.Context, restaurantID, orderID uuid.UUID,
	in UpdatePaymentStatusInput) (*models.Order, error) {

	target := strings.ToUpper(in.PaymentStatus)

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}
	if order.RestaurantID != restaurantID {
		return nil, apperr.Unauthorized("order does not belong to this restaurant")
	}
	if order.PaymentMethod != models.PaymentCash {
		return nil, apperr.InvalidOperation("payment status can only be changed on cash orders")
	}
	if err := ValidatePaymentTransition(order.PaymentStatus, target); err != nil {
		return nil, err
	}

	from := order.PaymentStatus
	updates := map[string]interface{}{"payment_status": target}
	now := time.Now()
	switch {
	case target == models.PaymentStatusPaid:
		updates["paid_at"] = &now
	case from == models.PaymentStatusPaid:
		updates["paid_at"] = nil
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", order.ID, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidTransition(from, target)
	}

	// Fresh struct so a cleared paid_at comes back as nil instead of the
	// stale pointer from the pre-update read.
	var updated models.Order
	if err := s.db.WithContext(ctx).First(&updated, "id = ?", order.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// maybeRefund initiates a refund for a rejected card order that was already
// paid. Failure is logged and never rolls back the rejection; the refund is
// retried manually out of band.
func (s *Service) maybeRefund(ctx context.Context, order *models.Order, actor Actor) {
	if order.PaymentMethod != models.PaymentCard ||
		order.PaymentStatus != models.PaymentStatusPaid ||
		order.PaymentIntentID == "" {
		return
	}
	if s.refunder == nil {
		return
	}

	result, err := s.refunder.RefundOrder(ctx, order.ID, order.PaymentIntentID,
		order.Total, actor.UserID, actor.Role)
	if err != nil {
		logger.Warn().Err(err).
			Str("order_id", order.ID.String()).
			Msg("refund failed after rejection; retry manually")
		return
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusRefunded,
			"paid_at":        nil,
			"updated_at":     now,
		}).Error
	if err != nil {
		logger.Warn().Err(err).
			Str("order_id", order.ID.String()).
			Str("refund_id", result.ID).
			Msg("refund initiated but payment status update failed")
		return
	}
	order.PaymentStatus = models.PaymentStatusRefunded
	order.PaidAt = nil
}

// notify is fire and forget; errors are logged, never propagated.
func (s *Service) notify(order *models.Order, rejected bool) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyUserOrderStatus(order); err != nil {
		logger.Warn().Err(err).
			Str("order_id", order.ID.String()).
			Msg("user notification failed")
	}
	if rejected {
		if err := s.notifier.NotifyRestaurantAndAdminCancelled(order); err != nil {
			logger.Warn().Err(err).
				Str("order_id", order.ID.String()).
				Msg("admin notification failed")
		}
	}
}

// assertTerminalConsistency is a development aid used by tests.
func assertTerminalConsistency() error {
	for _, terminal := range []string{models.OrderDelivered, models.OrderRejected, models.OrderCancelled} {
		if targets := orderTransitions[terminal]; len(targets) != 0 {
			return fmt.Errorf("terminal status %s has outbound transitions", terminal)
		}
	}
	return nil
}
