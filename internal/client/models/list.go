package models

type List struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

func (l List) RowID() ID { return l.ID }

type ListFields struct {
	Name string `json:"name"`
}

// ListItem is a member of exactly one List.
type ListItem struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	ListID ID     `json:"listId"`
}

func (i ListItem) RowID() ID { return i.ID }

type ListItemFields struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	ListID ID     `json:"listId"`
}
