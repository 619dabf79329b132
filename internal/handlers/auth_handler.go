package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sashika20643/Soundpath-sub001/internal/helpers"
	"github.com/sashika20643/Soundpath-sub001/internal/models"
	"github.com/sashika20643/Soundpath-sub001/internal/validators"
)

func Login(c *gin.Context) {
	var req validators.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.BindingErrorMessage(err))
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "JWT_SECRET not configured.")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Verify resolves the authenticated token back to its user record.
func Verify(c *gin.Context) {
	claim, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	userID, err := helpers.ParseUUID(fmt.Sprint(claim))
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token subject.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User no longer exists.")
		return
	}

	helpers.RespondWithData(c, http.StatusOK, user)
}
