package services

import (
	"context"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/common"
)

// TemplateCacheSize is how many templates the cache keeps.
const TemplateCacheSize = 100

type TemplateService interface {
	Filter(ctx context.Context, q models.Query) (models.Page[models.Template], error)
	Create(ctx context.Context, fields models.TemplateFields) (models.Template, error)
	Update(ctx context.Context, id models.ID, fields models.TemplateFields) (models.Template, error)
	Delete(ctx context.Context, id models.ID) error
}

type templateService struct {
	api   client.API
	cache *TemplateCache
}

// NewTemplateService returns a TemplateService. When cache is not nil,
// successful mutations are applied to it as well.
func NewTemplateService(api client.API, cache *TemplateCache) TemplateService {
	return &templateService{api: api, cache: cache}
}

func (s *templateService) Filter(ctx context.Context, q models.Query) (models.Page[models.Template], error) {
	return client.Fetch[models.Template](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   "/templates/filter",
		Body:   q,
	})
}

func (s *templateService) Create(ctx context.Context, fields models.TemplateFields) (models.Template, error) {
	if blank(fields.Name) {
		return models.Template{}, invalid(common.ErrNameRequired)
	}
	t, err := sendRow[models.Template](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   "/templates",
		Body:   fields,
	}, nil)
	if err == nil && s.cache != nil {
		s.cache.put(t)
	}
	return t, err
}

func (s *templateService) Update(ctx context.Context, id models.ID, fields models.TemplateFields) (models.Template, error) {
	if blank(fields.Name) {
		return models.Template{}, invalid(common.ErrNameRequired)
	}
	t, err := sendRow[models.Template](ctx, s.api, client.Request{
		Method: http.MethodPut,
		Path:   idPath("/templates", id),
		Body:   fields,
	}, func() models.Template {
		return models.Template{ID: id, Name: fields.Name, Description: fields.Description, Content: fields.Content}
	})
	if err == nil && s.cache != nil {
		s.cache.put(t)
	}
	return t, err
}

func (s *templateService) Delete(ctx context.Context, id models.ID) error {
	_, err := s.api.Do(ctx, client.Request{Method: http.MethodDelete, Path: idPath("/templates", id)})
	if err == nil && s.cache != nil {
		s.cache.remove(id)
	}
	return err
}

// TemplateCache holds the first TemplateCacheSize templates for pickers
// such as the campaign form.
type TemplateCache struct {
	api client.API

	mu     sync.RWMutex
	rows   []models.Template
	loaded bool
}

func NewTemplateCache(api client.API) *TemplateCache {
	return &TemplateCache{api: api}
}

// Refresh replaces the cached templates with a fresh copy from the backend.
func (c *TemplateCache) Refresh(ctx context.Context) error {
	page, err := client.Fetch[models.Template](ctx, c.api, client.Request{
		Method: http.MethodPost,
		Path:   "/templates/filter",
		Body:   models.Query{Page: 1, Limit: TemplateCacheSize},
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = page.Rows
	c.loaded = true
	return nil
}

// All returns the cached templates, loading them on first use.
func (c *TemplateCache) All(ctx context.Context) ([]models.Template, error) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if !loaded {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Template, len(c.rows))
	copy(out, c.rows)
	return out, nil
}

func (c *TemplateCache) put(t models.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}
	for i := range c.rows {
		if c.rows[i].ID == t.ID {
			c.rows[i] = t
			return
		}
	}
	if len(c.rows) < TemplateCacheSize {
		c.rows = append(c.rows, t)
	}
}

func (c *TemplateCache) remove(id models.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.rows {
		if c.rows[i].ID == id {
			c.rows = append(c.rows[:i:i], c.rows[i+1:]...)
			return
		}
	}
}
