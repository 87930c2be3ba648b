package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/common"
	"github.com/dmitrijs2005/mailadmin/internal/logging"
)

// ListService manages mailing lists. Delete removes only the list row;
// DeleteCascade removes the list's items first.
type ListService interface {
	Filter(ctx context.Context, q models.Query) (models.Page[models.List], error)
	Create(ctx context.Context, fields models.ListFields) (models.List, error)
	Update(ctx context.Context, id models.ID, fields models.ListFields) (models.List, error)
	Delete(ctx context.Context, id models.ID) error
	Items(ctx context.Context, id models.ID) ([]models.ListItem, error)
	DeleteCascade(ctx context.Context, id models.ID) error
}

type listService struct {
	api     client.API
	cascade CascadeOptions
	logger  logging.Logger
}

func NewListService(api client.API, cascade CascadeOptions, logger logging.Logger) ListService {
	return &listService{
		api:     api,
		cascade: cascade.withDefaults(),
		logger:  logger.With("component", "lists"),
	}
}

func (s *listService) Filter(ctx context.Context, q models.Query) (models.Page[models.List], error) {
	return client.Fetch[models.List](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   "/list/filter",
		Body:   q,
	})
}

func (s *listService) Create(ctx context.Context, fields models.ListFields) (models.List, error) {
	if blank(fields.Name) {
		return models.List{}, invalid(common.ErrNameRequired)
	}
	return sendRow[models.List](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   "/list",
		Body:   fields,
	}, nil)
}

func (s *listService) Update(ctx context.Context, id models.ID, fields models.ListFields) (models.List, error) {
	if blank(fields.Name) {
		return models.List{}, invalid(common.ErrNameRequired)
	}
	return sendRow[models.List](ctx, s.api, client.Request{
		Method: http.MethodPut,
		Path:   idPath("/list", id),
		Body:   fields,
	}, func() models.List { return models.List{ID: id, Name: fields.Name} })
}

func (s *listService) Delete(ctx context.Context, id models.ID) error {
	_, err := s.api.Do(ctx, client.Request{Method: http.MethodDelete, Path: idPath("/list", id)})
	return err
}

// Items returns every item of list id, unpaginated.
func (s *listService) Items(ctx context.Context, id models.ID) ([]models.ListItem, error) {
	if id == "" {
		return nil, invalid(common.ErrIncorrectParameter)
	}
	page, err := fetchItems(ctx, s.api, id, models.Query{All: true})
	if err != nil {
		return nil, err
	}
	return page.Rows, nil
}
