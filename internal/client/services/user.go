package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/client/session"
	"github.com/dmitrijs2005/mailadmin/internal/common"
)

// UserService manages accounts.
//
// Contract:
//   - Create registers a new account; it does not change the session.
//   - Update saves profile fields and, when NewPassword is set, resets the
//     password with a second call.
//   - ResetPassword sets a new password for any account (admin only on the
//     server side).
type UserService interface {
	Filter(ctx context.Context, q models.Query) (models.Page[models.User], error)
	Create(ctx context.Context, fields models.UserFields) (models.User, error)
	Update(ctx context.Context, id models.ID, fields models.UserFields) (models.User, error)
	ResetPassword(ctx context.Context, id models.ID, newPassword string) error
	Delete(ctx context.Context, id models.ID) error
}

type userService struct {
	api client.API
}

func NewUserService(api client.API) UserService {
	return &userService{api: api}
}

func (s *userService) Filter(ctx context.Context, q models.Query) (models.Page[models.User], error) {
	return client.Fetch[models.User](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   "/user/filter",
		Body:   q,
	})
}

func (s *userService) Create(ctx context.Context, fields models.UserFields) (models.User, error) {
	req := models.RegisterRequest{
		Name:              fields.Name,
		Email:             fields.Email,
		MobileCountryCode: fields.MobileCountryCode,
		Mobile:            fields.Mobile,
		Password:          fields.Password,
		RoleID:            fields.RoleID,
	}
	if req.RoleID == 0 {
		req.RoleID = models.RoleUser
	}
	if err := session.ValidateRegistration(req); err != nil {
		return models.User{}, err
	}

	return sendRow[models.User](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   req,
		Public: true,
	}, func() models.User {
		return models.User{
			Name:              req.Name,
			Email:             req.Email,
			MobileCountryCode: req.MobileCountryCode,
			Mobile:            req.Mobile,
			RoleID:            req.RoleID,
		}
	})
}

func (s *userService) Update(ctx context.Context, id models.ID, fields models.UserFields) (models.User, error) {
	if blank(fields.Name) {
		return models.User{}, invalid(common.ErrNameRequired)
	}
	if blank(fields.Email) {
		return models.User{}, invalid(common.ErrEmailRequired)
	}

	body := fields
	body.Password = ""
	user, err := sendRow[models.User](ctx, s.api, client.Request{
		Method: http.MethodPut,
		Path:   idPath("/user", id),
		Body:   body,
	}, func() models.User {
		return models.User{
			ID:                id,
			Name:              fields.Name,
			Email:             fields.Email,
			MobileCountryCode: fields.MobileCountryCode,
			Mobile:            fields.Mobile,
			RoleID:            fields.RoleID,
		}
	})
	if err != nil {
		return user, err
	}

	if !blank(fields.NewPassword) {
		if err := s.ResetPassword(ctx, id, fields.NewPassword); err != nil {
			return user, fmt.Errorf("profile saved, password reset failed: %w", err)
		}
	}
	return user, nil
}

func (s *userService) ResetPassword(ctx context.Context, id models.ID, newPassword string) error {
	if blank(newPassword) {
		return invalid(common.ErrEmptyPassword)
	}
	_, err := s.api.Do(ctx, client.Request{
		Method: http.MethodPut,
		Path:   idPath("/user/reset-password", id),
		Body:   map[string]string{"newPassword": newPassword},
	})
	return err
}

func (s *userService) Delete(ctx context.Context, id models.ID) error {
	_, err := s.api.Do(ctx, client.Request{Method: http.MethodDelete, Path: idPath("/user", id)})
	return err
}
