package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/common"
)

// Uploader sends a multipart form; *client.HTTPClient implements it.
type Uploader interface {
	Upload(ctx context.Context, path, fileField, fileName string, file io.Reader, fields map[string]string) error
}

// ListItemService manages the members of one list.
type ListItemService interface {
	Filter(ctx context.Context, q models.Query) (models.Page[models.ListItem], error)
	Create(ctx context.Context, fields models.ListItemFields) (models.ListItem, error)
	Update(ctx context.Context, id models.ID, fields models.ListItemFields) (models.ListItem, error)
	Delete(ctx context.Context, id models.ID) error
	Upload(ctx context.Context, fileName string, file io.Reader) error
	ListID() models.ID
}

type listItemService struct {
	api    client.API
	up     Uploader
	listID models.ID
}

// NewListItemService binds the service to listID. up may be nil when bulk
// upload is not needed.
func NewListItemService(api client.API, up Uploader, listID models.ID) ListItemService {
	return &listItemService{api: api, up: up, listID: listID}
}

func (s *listItemService) ListID() models.ID { return s.listID }

func fetchItems(ctx context.Context, api client.API, listID models.ID, q models.Query) (models.Page[models.ListItem], error) {
	v := pageQuery(q)
	v.Set("listId", listID.String())
	return client.Fetch[models.ListItem](ctx, api, client.Request{
		Method: http.MethodGet,
		Path:   "/list/item/filter",
		Query:  v,
	})
}

func deleteItem(ctx context.Context, api client.API, id models.ID) error {
	_, err := api.Do(ctx, client.Request{Method: http.MethodDelete, Path: idPath("/list/item", id)})
	return err
}

// Filter loads one page of members. A search covers the whole list and is
// not paginated.
func (s *listItemService) Filter(ctx context.Context, q models.Query) (models.Page[models.ListItem], error) {
	if q.Search != "" {
		q.All = true
	}
	return fetchItems(ctx, s.api, s.listID, q)
}

func (s *listItemService) validate(fields *models.ListItemFields) error {
	if blank(fields.Email) {
		return invalid(common.ErrEmailRequired)
	}
	if fields.ListID == "" {
		fields.ListID = s.listID
	}
	return nil
}

func (s *listItemService) Create(ctx context.Context, fields models.ListItemFields) (models.ListItem, error) {
	if err := s.validate(&fields); err != nil {
		return models.ListItem{}, err
	}
	return sendRow[models.ListItem](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   "/list/item/add",
		Body:   fields,
	}, nil)
}

func (s *listItemService) Update(ctx context.Context, id models.ID, fields models.ListItemFields) (models.ListItem, error) {
	if err := s.validate(&fields); err != nil {
		return models.ListItem{}, err
	}
	return sendRow[models.ListItem](ctx, s.api, client.Request{
		Method: http.MethodPut,
		Path:   idPath("/list/item/add", id),
		Body:   fields,
	}, func() models.ListItem {
		return models.ListItem{ID: id, Name: fields.Name, Email: fields.Email, ListID: fields.ListID}
	})
}

func (s *listItemService) Delete(ctx context.Context, id models.ID) error {
	return deleteItem(ctx, s.api, id)
}

// Upload imports members from a file into the bound list.
func (s *listItemService) Upload(ctx context.Context, fileName string, file io.Reader) error {
	if s.up == nil {
		return fmt.Errorf("upload: %w", common.ErrIncorrectParameter)
	}
	return s.up.Upload(ctx, "/list/item/upload", "file", fileName, file,
		map[string]string{"listId": s.listID.String()})
}
