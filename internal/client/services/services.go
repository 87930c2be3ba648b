// Package services contains the typed resource services of the mailadmin
// client. Each service validates its input, talks to the backend through
// client.API and satisfies controller.Resource for its row type.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/models"
)

func idPath(prefix string, id models.ID) string {
	return prefix + "/" + url.PathEscape(id.String())
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", client.ErrValidation, err)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// pageQuery encodes q as URL parameters for the GET-style filter routes.
func pageQuery(q models.Query) url.Values {
	v := url.Values{}
	if q.All {
		v.Set("all", "true")
	} else {
		v.Set("page", strconv.Itoa(q.Page))
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// sendRow performs a mutation and decodes the returned row. Backends that
// answer with a bare acknowledgement get fallback instead.
func sendRow[T models.Row](ctx context.Context, api client.API, req client.Request, fallback func() T) (T, error) {
	row, err := client.Send[T](ctx, api, req)
	if err != nil {
		var zero T
		return zero, err
	}
	if row.RowID() == "" && fallback != nil {
		return fallback(), nil
	}
	return row, nil
}
