package session

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
)

// AuthAPI is the slice of the backend the store needs.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
}

type httpAuth struct {
	api client.API
}

// NewHTTPAuth returns an AuthAPI over the backend's /auth routes.
func NewHTTPAuth(api client.API) AuthAPI {
	return &httpAuth{api: api}
}

func (a *httpAuth) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	return client.Send[models.LoginResponse](ctx, a.api, client.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   req,
		Public: true,
	})
}

func (a *httpAuth) Register(ctx context.Context, req models.RegisterRequest) error {
	_, err := a.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   req,
		Public: true,
	})
	return err
}
