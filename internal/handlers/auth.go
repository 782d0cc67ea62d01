package handlers

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/config"
	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/utils"
)

// AuthHandler manages registration, OTP verification and login.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// Register creates an unverified account and issues an OTP code.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var existing models.User
	err := h.db.First(&existing, "phone = ?", req.Phone).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "phone already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	otp := models.OTPVerification{
		Phone:     req.Phone,
		Code:      fmt.Sprintf("%06d", rand.Intn(1000000)),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	if err := h.db.Create(&otp).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"id": user.ID, "phone": user.Phone},
	})
}

type verifyRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// Verify confirms the OTP code and marks the account verified.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var otp models.OTPVerification
	err := h.db.Where("phone = ? AND code = ? AND verified = ?", req.Phone, req.Code, false).
		Order("created_at desc").First(&otp).Error
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid verification code")
	}
	if time.Now().After(otp.ExpiresAt) {
		return fiber.NewError(fiber.StatusBadRequest, "verification code expired")
	}

	now := time.Now()
	if err := h.db.Model(&otp).Updates(map[string]interface{}{"verified": true, "used_at": &now}).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.User{}).Where("phone = ?", req.Phone).
		Update("is_verified", true).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and issues a JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var user models.User
	if err := h.db.First(&user, "phone = ?", req.Phone).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":         user.ID,
				"first_name": user.FirstName,
				"last_name":  user.LastName,
				"phone":      user.Phone,
				"role":       user.Role,
			},
		},
	})
}
