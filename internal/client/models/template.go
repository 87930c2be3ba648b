package models

type Template struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Content is the editor design document, stored verbatim.
	Content string `json:"content"`
}

func (t Template) RowID() ID { return t.ID }

type TemplateFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}
