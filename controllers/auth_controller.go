package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/config"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/models"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/utils"
)

// AuthController handles registration, login, logout and the user directory.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// ListUsers returns every user. Password hashes are never serialized.
func (a *AuthController) ListUsers(ctx *gin.Context) {
	users := []models.User{}
	if err := a.db.Order("id ASC").Find(&users).Error; err != nil {
		serverError(ctx, 50001, err)
		return
	}
	utils.Success(ctx, users)
}

// Register creates a local account. Duplicate emails surface as a database error.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Email            string `json:"email" binding:"required,email"`
		Password         string `json:"password" binding:"required"`
		VerifiedPassword string `json:"verifiedPassword" binding:"required"`
		Name             string `json:"name" binding:"max=64"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "email, password and verifiedPassword are required")
		return
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		utils.Error(ctx, http.StatusBadRequest, 40004, "password must be at most 72 bytes")
		return
	}
	if req.Password != req.VerifiedPassword {
		utils.Error(ctx, http.StatusBadRequest, 40002, "passwords do not match")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		serverError(ctx, 50002, err)
		return
	}

	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         utils.Sanitize(req.Name),
	}
	if err := a.db.Create(&user).Error; err != nil {
		serverError(ctx, 50003, err)
		return
	}

	utils.Sugar.Infow("user registered", "user_id", user.ID)
	utils.Created(ctx, gin.H{"userId": user.ID})
}

// Login verifies credentials and delivers the token as an httpOnly cookie.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "email and password are required")
		return
	}

	var user models.User
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(ctx, 50004, err)
		return
	}
	// unknown email and wrong password are indistinguishable
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid email or password")
		return
	}

	cfg := config.Get()
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	token, _, err := utils.GenerateToken(user.ID, ttl)
	if err != nil {
		serverError(ctx, 50005, err)
		return
	}

	setTokenCookie(ctx, cfg, token, int(ttl.Seconds()))
	utils.Success(ctx, gin.H{"userId": user.ID})
}

// Logout clears the cookie and revokes the presented token when it is still valid.
func (a *AuthController) Logout(ctx *gin.Context) {
	cfg := config.Get()
	if token, err := ctx.Cookie(cfg.CookieName); err == nil && token != "" {
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(claims.ID, claims.ExpiresAt.Time)
		}
	}
	setTokenCookie(ctx, cfg, "", -1)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

func setTokenCookie(ctx *gin.Context, cfg config.AppConfig, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(cfg.CookieName, value, maxAge, "/", "", cfg.IsProduction(), true)
}
