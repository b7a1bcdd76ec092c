package manual

type Section struct {
	ID          int64  `json:"id" db:"id"`
	DocumentID  int64  `json:"document_id" db:"document_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Order       int    `json:"order" db:"sort_order"`
	ParentID    *int64 `json:"parent_id" db:"parent_id"` // NULL = top level of the document
	IsModule    bool   `json:"is_module" db:"is_module"` // Reusable library entry
}
