package client

import (
	"context"
	"net/http"

	"github.com/sashika20643/Soundpath-sub001/internal/models"
	"github.com/sashika20643/Soundpath-sub001/internal/validators"
)

const (
	eventsCollection     = "events"
	categoriesCollection = "categories"
	contactCollection    = "contact"
)

func (c *Client) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	query := filter.Encode()
	var events []models.Event
	if err := c.getCached(ctx, listKey(eventsCollection, query), "/v1/events", query, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := c.getCached(ctx, itemKey(eventsCollection, id), "/v1/events/"+id, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, req validators.CreateEventRequest) (*models.Event, error) {
	var event models.Event
	if err := c.mutate(ctx, http.MethodPost, "/v1/events", req, &event, eventsCollection, "Event created."); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, req validators.UpdateEventRequest) (*models.Event, error) {
	var event models.Event
	if err := c.mutate(ctx, http.MethodPut, "/v1/events/"+id, req, &event, eventsCollection, "Event updated.", id); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, "/v1/events/"+id, nil, nil, eventsCollection, "Event deleted.", id)
}

// SetEventApproval flips the event's approval flag. The operation is
// idempotent on the server side.
func (c *Client) SetEventApproval(ctx context.Context, id string, approved bool) (*models.Event, error) {
	req := validators.SetApprovalRequest{Approved: &approved}
	var event models.Event
	if err := c.mutate(ctx, http.MethodPatch, "/v1/events/"+id+"/approval", req, &event, eventsCollection, "Event approval updated.", id); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) ListCategories(ctx context.Context, filter models.CategoryFilter) ([]models.Category, error) {
	query := filter.Encode()
	var categories []models.Category
	if err := c.getCached(ctx, listKey(categoriesCollection, query), "/v1/categories", query, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := c.getCached(ctx, itemKey(categoriesCollection, id), "/v1/categories/"+id, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CreateCategory(ctx context.Context, req validators.CreateCategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := c.mutate(ctx, http.MethodPost, "/v1/categories", req, &category, categoriesCollection, "Category created."); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, req validators.UpdateCategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := c.mutate(ctx, http.MethodPut, "/v1/categories/"+id, req, &category, categoriesCollection, "Category updated.", id); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, "/v1/categories/"+id, nil, nil, categoriesCollection, "Category deleted.", id)
}

func (c *Client) CreateContactMessage(ctx context.Context, req validators.ContactRequest) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := c.mutate(ctx, http.MethodPost, "/v1/contact", req, &message, contactCollection, "Message sent."); err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *Client) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	if err := c.getCached(ctx, listKey(contactCollection, nil), "/v1/contact", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// LoginResult carries the session token and the authenticated user.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates and stores the returned token for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	req := validators.LoginRequest{Username: username, Password: password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/login", nil, req, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Verify resolves the stored token back to its user record.
func (c *Client) Verify(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/v1/verify", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout clears the session token and every cached read.
func (c *Client) Logout() {
	c.token = ""
	c.cache.clear()
}
