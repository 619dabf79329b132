package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sashika20643/Soundpath-sub001/internal/helpers"
	"github.com/sashika20643/Soundpath-sub001/internal/middleware"
	"github.com/sashika20643/Soundpath-sub001/internal/models"
	"github.com/sashika20643/Soundpath-sub001/internal/validators"
)

const eventsCollection = "events"

func CreateEvent(c *gin.Context) {
	var req validators.CreateEventRequest
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

	if msg, ok := checkCategoryRefs(gormDB, req.GenreIDs, req.SettingIDs, req.EventTypeIDs); !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	event := models.Event{
		ID:               uuid.New(),
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		HeroImage:        req.HeroImage,
		Date:             req.Date,
		Tags:             datatypes.NewJSONSlice(orEmpty(req.Tags)),
		GenreIDs:         datatypes.NewJSONSlice(orEmpty(req.GenreIDs)),
		SettingIDs:       datatypes.NewJSONSlice(orEmpty(req.SettingIDs)),
		EventTypeIDs:     datatypes.NewJSONSlice(orEmpty(req.EventTypeIDs)),
		Continent:        req.Continent,
		Country:          req.Country,
		City:             req.City,
		LocationName:     req.LocationName,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	middleware.GetCache(c).Invalidate(c.Request.Context(), eventsCollection)

	helpers.RespondWithData(c, http.StatusCreated, event)
}

func GetEvent(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	store := middleware.GetCache(c)
	itemKey := store.ItemKey(c.Request.Context(), eventsCollection, eventID.String())
	var cached models.Event
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

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	store.SetJSON(c.Request.Context(), itemKey, event)
	helpers.RespondWithData(c, http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	var q validators.EventListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.BindingErrorMessage(err))
		return
	}

	filter, err := q.Filter()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	page, limit, err := q.Pagination()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	store := middleware.GetCache(c)
	listKey := store.ListKey(c.Request.Context(), eventsCollection, c.Request.URL.RawQuery)
	var cached []models.Event
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

	query := applyEventFilter(gormDB.Model(&models.Event{}), gormDB, filter).Order("created_at DESC")
	if limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	store.SetJSON(c.Request.Context(), listKey, events)
	helpers.RespondWithData(c, http.StatusOK, events)
}

func UpdateEvent(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req validators.UpdateEventRequest
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

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	var refGroups [][]string
	if req.GenreIDs != nil {
		refGroups = append(refGroups, *req.GenreIDs)
	}
	if req.SettingIDs != nil {
		refGroups = append(refGroups, *req.SettingIDs)
	}
	if req.EventTypeIDs != nil {
		refGroups = append(refGroups, *req.EventTypeIDs)
	}
	if msg, ok := checkCategoryRefs(gormDB, refGroups...); !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.ShortDescription != nil {
		event.ShortDescription = *req.ShortDescription
	}
	if req.LongDescription != nil {
		event.LongDescription = *req.LongDescription
	}
	if req.HeroImage != nil {
		event.HeroImage = *req.HeroImage
	}
	if req.Date != nil {
		event.Date = req.Date
	}
	if req.Tags != nil {
		event.Tags = datatypes.NewJSONSlice(orEmpty(*req.Tags))
	}
	if req.GenreIDs != nil {
		event.GenreIDs = datatypes.NewJSONSlice(orEmpty(*req.GenreIDs))
	}
	if req.SettingIDs != nil {
		event.SettingIDs = datatypes.NewJSONSlice(orEmpty(*req.SettingIDs))
	}
	if req.EventTypeIDs != nil {
		event.EventTypeIDs = datatypes.NewJSONSlice(orEmpty(*req.EventTypeIDs))
	}
	if req.Continent != nil {
		event.Continent = *req.Continent
	}
	if req.Country != nil {
		event.Country = *req.Country
	}
	if req.City != nil {
		event.City = *req.City
	}
	if req.LocationName != nil {
		event.LocationName = *req.LocationName
	}
	if req.Latitude != nil {
		event.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		event.Longitude = req.Longitude
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	middleware.GetCache(c).Invalidate(c.Request.Context(), eventsCollection)

	helpers.RespondWithData(c, http.StatusOK, event)
}

func DeleteEvent(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
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

	result := gormDB.Where("id = ?", eventID).Delete(&models.Event{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	middleware.GetCache(c).Invalidate(c.Request.Context(), eventsCollection)

	helpers.RespondWithData(c, http.StatusOK, gin.H{"id": eventID})
}

// SetEventApproval flips the approval flag. Setting the same value twice
// yields the same observable state as setting it once.
func SetEventApproval(c *gin.Context) {
	eventID, err := helpers.ParseUUID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req validators.SetApprovalRequest
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

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	if event.Approved != *req.Approved {
		if err := gormDB.Model(&event).Update("approved", *req.Approved).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update approval.")
			return
		}
		event.Approved = *req.Approved
	}

	middleware.GetCache(c).Invalidate(c.Request.Context(), eventsCollection)

	helpers.RespondWithData(c, http.StatusOK, event)
}

// applyEventFilter composes the optional criteria into one query. Facet
// id-sets are independent AND-ed conditions; within a facet an event matches
// when it shares at least one value with the requested set.
func applyEventFilter(query *gorm.DB, db *gorm.DB, f models.EventFilter) *gorm.DB {
	if f.Continent != "" {
		query = query.Where("continent = ?", f.Continent)
	}
	if f.Country != "" {
		query = query.Where("country = ?", f.Country)
	}
	if f.City != "" {
		query = query.Where("city = ?", f.City)
	}

	query = whereJSONOverlap(query, db, "genre_ids", f.GenreIDs)
	query = whereJSONOverlap(query, db, "setting_ids", f.SettingIDs)
	query = whereJSONOverlap(query, db, "event_type_ids", f.EventTypeIDs)
	query = whereJSONOverlap(query, db, "tags", f.Tags)

	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(f.Search) + "%"
		query = query.Where(
			db.Where("title ILIKE ?", pattern).
				Or("short_description ILIKE ?", pattern).
				Or("long_description ILIKE ?", pattern),
		)
	}

	if f.Approved != nil {
		query = query.Where("approved = ?", *f.Approved)
	}

	return query
}

// likeEscaper neutralizes LIKE wildcards in user-supplied search text, so a
// search for "100%" matches the literal string rather than everything.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereJSONOverlap adds a jsonb containment OR-group: the column must contain
// at least one of the supplied values.
func whereJSONOverlap(query *gorm.DB, db *gorm.DB, column string, values []string) *gorm.DB {
	if len(values) == 0 {
		return query
	}
	cond := db.Where(column+" @> ?", jsonElement(values[0]))
	for _, v := range values[1:] {
		cond = cond.Or(column+" @> ?", jsonElement(v))
	}
	return query.Where(cond)
}

func jsonElement(v string) datatypes.JSON {
	raw, _ := json.Marshal([]string{v})
	return datatypes.JSON(raw)
}

// checkCategoryRefs verifies that every referenced category id exists.
func checkCategoryRefs(db *gorm.DB, idGroups ...[]string) (string, bool) {
	seen := map[string]bool{}
	var all []string
	for _, group := range idGroups {
		for _, id := range group {
			if !seen[id] {
				seen[id] = true
				all = append(all, id)
			}
		}
	}
	if len(all) == 0 {
		return "", true
	}

	var count int64
	if err := db.Model(&models.Category{}).Where("id IN ?", all).Count(&count).Error; err != nil {
		return "Error checking categories.", false
	}
	if count < int64(len(all)) {
		return "One or more category ids do not exist.", false
	}
	return "", true
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
