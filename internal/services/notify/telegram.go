// Package notify delivers order notifications to users and the operations
// chat through the Telegram bot API. Callers treat delivery as best effort.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/foodcourt/internal/models"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// TelegramService sends order notifications via a Telegram bot.
type TelegramService struct {
	botToken    string
	adminChatID string
}

func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{botToken: botToken, adminChatID: adminChatID}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage posts a message to the given chat. A missing bot token makes
// the service a no-op so local development works without credentials.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		logger.Debug().Msg("telegram bot token not configured, skipping")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)
	body, err := json.Marshal(telegramMessage{ChatID: chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// NotifyUserOrderStatus tells the admin chat about an order status change.
// The customer-facing channel rides on the same chat until per-user chats are
// linked during onboarding.
func (s *TelegramService) NotifyUserOrderStatus(order *models.Order) error {
	if s.adminChatID == "" {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Order %s</b>\n", order.OrderNumber)
	fmt.Fprintf(&b, "Status: <b>%s</b>\n", order.Status)
	fmt.Fprintf(&b, "Payment: %s (%s)\n", order.PaymentMethod, order.PaymentStatus)
	fmt.Fprintf(&b, "Total: %s", order.Total.StringFixed(2))
	if order.EstimatedDeliveryTime != nil {
		fmt.Fprintf(&b, "\nETA: %s", order.EstimatedDeliveryTime.Format("15:04"))
	}

	return s.SendMessage(s.adminChatID, b.String())
}

// NotifyRestaurantAndAdminCancelled flags a rejected or cancelled order to
// the operations chat, including the reason captured in the instructions.
func (s *TelegramService) NotifyRestaurantAndAdminCancelled(order *models.Order) error {
	if s.adminChatID == "" {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>⚠️ Order %s %s</b>\n", order.OrderNumber, order.Status)
	fmt.Fprintf(&b, "Restaurant: %s\n", order.RestaurantID)
	fmt.Fprintf(&b, "Total: %s\n", order.Total.StringFixed(2))
	if order.Instructions != "" {
		fmt.Fprintf(&b, "%s", order.Instructions)
	}

	return s.SendMessage(s.adminChatID, strings.TrimSpace(b.String()))
}
