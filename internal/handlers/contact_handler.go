package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sashika20643/Soundpath-sub001/internal/helpers"
	"github.com/sashika20643/Soundpath-sub001/internal/models"
	"github.com/sashika20643/Soundpath-sub001/internal/validators"
)

func CreateContactMessage(c *gin.Context) {
	var req validators.ContactRequest
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

	message := models.ContactMessage{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	if err := gormDB.Create(&message).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to submit message.")
		return
	}

	helpers.RespondWithData(c, http.StatusCreated, message)
}

func ListContactMessages(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var messages []models.ContactMessage
	if err := gormDB.Order("created_at DESC").Find(&messages).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving messages.")
		return
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}

	helpers.RespondWithData(c, http.StatusOK, messages)
}
