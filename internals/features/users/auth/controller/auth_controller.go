package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	configs "kelasku_backend/internals/configs"
	dto "kelasku_backend/internals/features/users/auth/dto"
	userModel "kelasku_backend/internals/features/users/user/model"
	helper "kelasku_backend/internals/helpers"
)

const accessTokenTTL = 12 * time.Hour

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validator: validator.New()}
}

func mapUserToResponse(u *userModel.UserModel) dto.UserResponse {
	return dto.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          u.Role,
		StudentNumber: u.StudentNumber,
		Points:        u.Points,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
	}
}

func signAccessToken(u *userModel.UserModel, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"id":   u.ID.String(),
		"role": u.Role,
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Unix(),
	}
	if u.StudentNumber != nil {
		claims["student_number"] = *u.StudentNumber
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(configs.JWTSecret))
}

// POST /auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user userModel.UserModel
	err := ctl.DB.WithContext(c.UserContext()).
		Where("user_email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	expiresAt := time.Now().Add(accessTokenTTL)
	token, err := signAccessToken(&user, expiresAt)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not sign token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return helper.JsonOK(c, "Login success", dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        mapUserToResponse(&user),
	})
}

// POST /auth/logout
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return helper.JsonOK(c, "Logged out", nil)
}

// GET /auth/me
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("user_id = ?", userID).
		Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", mapUserToResponse(&user))
}

// POST /auth/change-password
func (ctl *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("user_id = ?", userID).
		Take(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Current password is wrong")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not hash password")
	}
	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&userModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_password", string(hash)).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Password changed", nil)
}
