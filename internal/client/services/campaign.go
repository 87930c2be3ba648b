package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/common"
)

const campaignPath = "/api/campaign"

// CampaignService manages campaigns. Delete is a soft delete on the
// backend.
type CampaignService interface {
	Filter(ctx context.Context, q models.Query) (models.Page[models.Campaign], error)
	Create(ctx context.Context, fields models.CampaignFields) (models.Campaign, error)
	Update(ctx context.Context, id models.ID, fields models.CampaignFields) (models.Campaign, error)
	Delete(ctx context.Context, id models.ID) error
	Details(ctx context.Context, id models.ID) (models.Campaign, error)
	Copy(ctx context.Context, id models.ID) error
	ToggleStatus(ctx context.Context, c models.Campaign) (models.Campaign, error)
}

type campaignService struct {
	api client.API
}

func NewCampaignService(api client.API) CampaignService {
	return &campaignService{api: api}
}

func (s *campaignService) Filter(ctx context.Context, q models.Query) (models.Page[models.Campaign], error) {
	return client.Fetch[models.Campaign](ctx, s.api, client.Request{
		Method: http.MethodGet,
		Path:   campaignPath,
		Query:  pageQuery(q),
	})
}

func (s *campaignService) Create(ctx context.Context, fields models.CampaignFields) (models.Campaign, error) {
	if blank(fields.Name) {
		return models.Campaign{}, invalid(common.ErrNameRequired)
	}
	return sendRow[models.Campaign](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   campaignPath,
		Body:   fields,
	}, nil)
}

func (s *campaignService) Update(ctx context.Context, id models.ID, fields models.CampaignFields) (models.Campaign, error) {
	if blank(fields.Name) {
		return models.Campaign{}, invalid(common.ErrNameRequired)
	}
	return sendRow[models.Campaign](ctx, s.api, client.Request{
		Method: http.MethodPut,
		Path:   idPath(campaignPath, id),
		Body:   fields,
	}, func() models.Campaign { return models.Campaign{ID: id, CampaignFields: fields} })
}

func (s *campaignService) Delete(ctx context.Context, id models.ID) error {
	_, err := s.api.Do(ctx, client.Request{Method: http.MethodDelete, Path: idPath(campaignPath, id)})
	return err
}

func (s *campaignService) Details(ctx context.Context, id models.ID) (models.Campaign, error) {
	c, err := client.Send[models.Campaign](ctx, s.api, client.Request{
		Method: http.MethodGet,
		Path:   idPath(campaignPath, id),
	})
	if err == nil && c.ID == "" {
		return c, client.ErrNotFound
	}
	return c, err
}

// Copy asks the backend to duplicate campaign id. The copy shows up on the
// next load.
func (s *campaignService) Copy(ctx context.Context, id models.ID) error {
	_, err := s.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   idPath(campaignPath, id) + "/copy",
		Body:   struct{}{},
	})
	return err
}

// ToggleStatus flips c between Draft and Published and returns the
// updated campaign.
func (s *campaignService) ToggleStatus(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	status := c.ToggledStatus()
	_, err := s.api.Do(ctx, client.Request{
		Method: http.MethodPatch,
		Path:   idPath(campaignPath, c.ID) + "/status",
		Body:   map[string]string{"status": status},
	})
	if err != nil {
		return c, err
	}
	c.Status = status
	return c, nil
}
