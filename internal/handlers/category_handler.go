package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sashika20643/Soundpath-sub001/internal/helpers"
	"github.com/sashika20643/Soundpath-sub001/internal/middleware"
	"github.com/sashika20643/Soundpath-sub001/internal/models"
	"github.com/sashika20643/Soundpath-sub001/internal/validators"
)

const categoriesCollection = "categories"

func CreateCategory(c *gin.Context) {
	var req validators.CreateCategoryRequest
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

	var existing models.Category
	if result := gormDB.Where("name = ? AND type = ?", req.Name, req.Type).First(&existing); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "A category with this name already exists for this type.")
		return
	}

	category := models.Category{
		ID:   uuid.New(),
		Name: req.Name,
		Type: req.Type,
	}

	if err := gormDB.Create(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create category.")
		return
	}

	middleware.GetCache(c).Invalidate(c.Request.Context(), categoriesCollection)

	helpers.RespondWithData(c, http.StatusCreated, category)
}

func GetCategory(c *gin.Context) {
	categoryID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	store := middleware.GetCache(c)
	itemKey := store.ItemKey(c.Request.Context(), categoriesCollection, categoryID.String())
	var cached models.Category
	if store.GetJSON(c.Request.Context(), itemKey, &cached) {
		helpers.RespondWithData(c, http.StatusOK, cached)
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var category models.Category
	if err := gormDB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Category not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving category.")
		return
	}

	store.SetJSON(c.Request.Context(), itemKey, category)
	helpers.RespondWithData(c, http.StatusOK, category)
}

func ListCategories(c *gin.Context) {
	var q validators.CategoryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.BindingErrorMessage(err))
		return
	}

	page, limit, err := q.Pagination()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	store := middleware.GetCache(c)
	listKey := store.ListKey(c.Request.Context(), categoriesCollection, c.Request.URL.RawQuery)
	var cached []models.Category
	if store.GetJSON(c.Request.Context(), listKey, &cached) {
		helpers.RespondWithData(c, http.StatusOK, cached)
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	filter := q.Filter()
	query := gormDB.Model(&models.Category{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+likeEscaper.Replace(filter.Search)+"%")
	}
	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving categories.")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	store.SetJSON(c.Request.Context(), listKey, categories)
	helpers.RespondWithData(c, http.StatusOK, categories)
}

func UpdateCategory(c *gin.Context) {
	categoryID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req validators.UpdateCategoryRequest
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

	var category models.Category
	if err := gormDB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Category not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding category.")
		return
	}

	if req.Type != nil && *req.Type != category.Type {
		helpers.RespondWithError(c, http.StatusBadRequest, "type cannot be changed after creation")
		return
	}

	if req.Name != nil && *req.Name != category.Name {
		var existing models.Category
		result := gormDB.Where("name = ? AND type = ? AND id <> ?", *req.Name, category.Type, category.ID).First(&existing)
		if result.Error == nil {
			helpers.RespondWithError(c, http.StatusConflict, "A category with this name already exists for this type.")
			return
		}
		category.Name = *req.Name
	}

	if err := gormDB.Save(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update category.")
		return
	}

	middleware.GetCache(c).Invalidate(c.Request.Context(), categoriesCollection)

	helpers.RespondWithData(c, http.StatusOK, category)
}

func DeleteCategory(c *gin.Context) {
	categoryID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ?", categoryID).Delete(&models.Category{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Category not found.")
		return
	}

	middleware.GetCache(c).Invalidate(c.Request.Context(), categoriesCollection)

	helpers.RespondWithData(c, http.StatusOK, gin.H{"id": categoryID})
}
