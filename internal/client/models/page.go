package models

// Query selects one page of a resource. All asks for the unpaginated set.
type Query struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Search string `json:"search"`
	All    bool   `json:"-"`
}

// Page is the normalised result of every filter call.
type Page[T any] struct {
	Rows  []T
	Total int
}
