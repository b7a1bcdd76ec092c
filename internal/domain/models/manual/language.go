package manual

type Language struct {
	ID        int64  `json:"id" db:"id"`
	Code      string `json:"code" db:"code"` // BCP 47 tag, e.g. "it", "en-GB"
	Name      string `json:"name" db:"name"`
	IsActive  bool   `json:"is_active" db:"is_active"`
	IsDefault bool   `json:"is_default" db:"is_default"`
}
