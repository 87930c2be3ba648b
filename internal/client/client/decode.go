package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
)

// pageEnvelope covers every list shape the backend is known to emit:
//
//	{"data":{"rows":[...],"total":n}}
//	{"rows":[...],"total":n}
//	{"data":[...],"total":n}  (total optional)
//	{"campaigns":[...],"totalCount":n}
//	[...]
type pageEnvelope struct {
	Data       json.RawMessage `json:"data"`
	Rows       json.RawMessage `json:"rows"`
	Total      *int            `json:"total"`
	Campaigns  json.RawMessage `json:"campaigns"`
	TotalCount *int            `json:"totalCount"`
}

func isArray(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '['
}

func isObject(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

// DecodePage normalises a list response into models.Page. Anything that
// does not match a known shape yields ErrMalformedResponse.
func DecodePage[T any](body json.RawMessage) (models.Page[T], error) {
	var page models.Page[T]

	if isArray(body) {
		if err := json.Unmarshal(body, &page.Rows); err != nil {
			return page, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		page.Total = len(page.Rows)
		return page, nil
	}

	if !isObject(body) {
		return page, fmt.Errorf("%w: expected object or array", ErrMalformedResponse)
	}

	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return page, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	var (
		rows  json.RawMessage
		total *int
	)
	switch {
	case isObject(env.Data):
		var inner pageEnvelope
		if err := json.Unmarshal(env.Data, &inner); err != nil {
			return page, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		if !isArray(inner.Rows) {
			return page, fmt.Errorf("%w: data.rows is not a list", ErrMalformedResponse)
		}
		rows, total = inner.Rows, inner.Total
		if total == nil {
			total = env.Total
		}
	case isArray(env.Data):
		rows, total = env.Data, env.Total
	case isArray(env.Rows):
		rows, total = env.Rows, env.Total
	case isArray(env.Campaigns):
		rows, total = env.Campaigns, env.TotalCount
	default:
		return page, fmt.Errorf("%w: no rows in response", ErrMalformedResponse)
	}

	if err := json.Unmarshal(rows, &page.Rows); err != nil {
		return page, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if page.Rows == nil {
		page.Rows = []T{}
	}
	page.Total = len(page.Rows)
	if total != nil {
		page.Total = *total
	}
	return page, nil
}

// DecodeRow accepts {"data": row} or a bare row. An empty body yields the
// zero value.
func DecodeRow[T any](body json.RawMessage) (T, error) {
	var row T
	if len(bytes.TrimSpace(body)) == 0 {
		return row, nil
	}
	if !isObject(body) {
		return row, fmt.Errorf("%w: expected object", ErrMalformedResponse)
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return row, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	target := body
	if isObject(env.Data) {
		target = env.Data
	}
	if err := json.Unmarshal(target, &row); err != nil {
		return row, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return row, nil
}

// Fetch performs req and decodes the list response.
func Fetch[T any](ctx context.Context, api API, req Request) (models.Page[T], error) {
	body, err := api.Do(ctx, req)
	if err != nil {
		return models.Page[T]{}, err
	}
	return DecodePage[T](body)
}

// Send performs req and decodes the single-row response.
func Send[T any](ctx context.Context, api API, req Request) (T, error) {
	body, err := api.Do(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeRow[T](body)
}
