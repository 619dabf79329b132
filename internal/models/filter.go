package models

import (
	"net/url"
	"strconv"
	"strings"
)

// EventFilter is the query contract for event listings, shared by the server
// validators and the API client. On the wire, list values are comma-joined,
// booleans are the literal strings "true"/"false", and an absent value means
// "no filter".
type EventFilter struct {
	Continent    string
	Country      string
	City         string
	GenreIDs     []string
	SettingIDs   []string
	EventTypeIDs []string
	Tags         []string
	Search       string
	Approved     *bool
}

func (f EventFilter) Encode() url.Values {
	v := url.Values{}
	setValue(v, "continent", f.Continent)
	setValue(v, "country", f.Country)
	setValue(v, "city", f.City)
	setList(v, "genreIds", f.GenreIDs)
	setList(v, "settingIds", f.SettingIDs)
	setList(v, "eventTypeIds", f.EventTypeIDs)
	setList(v, "tags", f.Tags)
	setValue(v, "search", f.Search)
	if f.Approved != nil {
		v.Set("approved", strconv.FormatBool(*f.Approved))
	}
	return v
}

// CategoryFilter is the query contract for category listings.
type CategoryFilter struct {
	Type   string
	Search string
}

func (f CategoryFilter) Encode() url.Values {
	v := url.Values{}
	setValue(v, "type", f.Type)
	setValue(v, "search", f.Search)
	return v
}

func setValue(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setList(v url.Values, key string, values []string) {
	if len(values) > 0 {
		v.Set(key, strings.Join(values, ","))
	}
}
