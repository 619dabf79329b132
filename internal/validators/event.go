package validators

import (
	"fmt"
	"time"

	"github.com/sashika20643/Soundpath-sub001/internal/helpers"
	"github.com/sashika20643/Soundpath-sub001/internal/models"
)

// CreateEventRequest is the insert shape for events: title is the only
// required field, server-generated fields are absent.
type CreateEventRequest struct {
	Title            string     `json:"title" binding:"required"`
	ShortDescription string     `json:"shortDescription"`
	LongDescription  string     `json:"longDescription"`
	HeroImage        string     `json:"heroImage" binding:"omitempty,url"`
	Date             *time.Time `json:"date"`
	Tags             []string   `json:"tags"`
	GenreIDs         []string   `json:"genreIds" binding:"omitempty,dive,uuid"`
	SettingIDs       []string   `json:"settingIds" binding:"omitempty,dive,uuid"`
	EventTypeIDs     []string   `json:"eventTypeIds" binding:"omitempty,dive,uuid"`
	Continent        string     `json:"continent"`
	Country          string     `json:"country"`
	City             string     `json:"city"`
	LocationName     string     `json:"locationName"`
	Latitude         *float64   `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude        *float64   `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

// UpdateEventRequest is the partial-update shape: every field optional, the
// id is supplied via the route and never read from the body.
type UpdateEventRequest struct {
	Title            *string    `json:"title" binding:"omitempty,min=1"`
	ShortDescription *string    `json:"shortDescription"`
	LongDescription  *string    `json:"longDescription"`
	HeroImage        *string    `json:"heroImage" binding:"omitempty,url"`
	Date             *time.Time `json:"date"`
	Tags             *[]string  `json:"tags"`
	GenreIDs         *[]string  `json:"genreIds" binding:"omitempty,dive,uuid"`
	SettingIDs       *[]string  `json:"settingIds" binding:"omitempty,dive,uuid"`
	EventTypeIDs     *[]string  `json:"eventTypeIds" binding:"omitempty,dive,uuid"`
	Continent        *string    `json:"continent"`
	Country          *string    `json:"country"`
	City             *string    `json:"city"`
	LocationName     *string    `json:"locationName"`
	Latitude         *float64   `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude        *float64   `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

// SetApprovalRequest carries the target approval flag. A pointer so that a
// missing or non-boolean value fails binding instead of defaulting to false.
type SetApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// Pager holds the optional page/limit query parameters shared by listing
// endpoints. Both arrive as strings and are parsed at the boundary.
type Pager struct {
	Page  string `form:"page"`
	Limit string `form:"limit"`
}

// Pagination returns (0, 0) when no limit was requested, meaning all matches.
func (p Pager) Pagination() (page, limit int, err error) {
	if p.Limit == "" {
		return 0, 0, nil
	}
	limit, err = helpers.StringToInt(p.Limit)
	if err != nil || limit < 1 {
		return 0, 0, fmt.Errorf("limit must be a positive integer")
	}
	page = 1
	if p.Page != "" {
		page, err = helpers.StringToInt(p.Page)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
	}
	return page, limit, nil
}

// EventListQuery is the raw query-string shape for event listings. List
// values arrive comma-joined and booleans as literal strings; Filter()
// converts them into the typed contract before they reach any matching logic.
type EventListQuery struct {
	Pager
	Continent    string `form:"continent"`
	Country      string `form:"country"`
	City         string `form:"city"`
	GenreIDs     string `form:"genreIds"`
	SettingIDs   string `form:"settingIds"`
	EventTypeIDs string `form:"eventTypeIds"`
	Tags         string `form:"tags"`
	Search       string `form:"search"`
	Approved     string `form:"approved"`
}

func (q EventListQuery) Filter() (models.EventFilter, error) {
	approved, err := helpers.ParseOptionalBool(q.Approved)
	if err != nil {
		return models.EventFilter{}, fmt.Errorf("approved must be \"true\" or \"false\"")
	}
	return models.EventFilter{
		Continent:    q.Continent,
		Country:      q.Country,
		City:         q.City,
		GenreIDs:     helpers.SplitCommaList(q.GenreIDs),
		SettingIDs:   helpers.SplitCommaList(q.SettingIDs),
		EventTypeIDs: helpers.SplitCommaList(q.EventTypeIDs),
		Tags:         helpers.SplitCommaList(q.Tags),
		Search:       q.Search,
		Approved:     approved,
	}, nil
}
