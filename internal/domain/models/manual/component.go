package manual

import (
	"encoding/json"
	"strconv"
)

// Component is a part identified by its unique code.
type Component struct {
	ID          int64          `json:"id" db:"id"`
	Code        string         `json:"code" db:"code"`
	Description string         `json:"description" db:"description"`
	Details     map[string]any `json:"details" db:"details"`
}

// Level returns the BOM level stored in details, 0 when absent or unparsable.
func (c *Component) Level() int {
	raw, ok := c.Details["level"]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// SectionComponent attaches a component to a section with a quantity.
type SectionComponent struct {
	SectionID   int64     `json:"section_id" db:"section_id"`
	ComponentID int64     `json:"component_id" db:"component_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Notes       *string   `json:"notes" db:"notes"`
	Component   Component `json:"component"`
}

type Bom struct {
	ID      int64     `json:"id" db:"id"`
	Name    string    `json:"name" db:"name"`
	Version string    `json:"version" db:"version"`
	Items   []BomItem `json:"items"`
}

type BomItem struct {
	ID          int64     `json:"id" db:"id"`
	BomID       int64     `json:"bom_id" db:"bom_id"`
	ComponentID int64     `json:"component_id" db:"component_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Order       int       `json:"order" db:"sort_order"`
	Component   Component `json:"component"`
}

// BomDiffKind classifies one line of a BOM comparison.
type BomDiffKind string

const (
	BomDiffAdded   BomDiffKind = "added"
	BomDiffRemoved BomDiffKind = "removed"
	BomDiffChanged BomDiffKind = "quantity_changed"
)

// BomDiffEntry is one difference between two BOMs, keyed by component code.
type BomDiffEntry struct {
	Code        string      `json:"code"`
	Description string      `json:"description"`
	Kind        BomDiffKind `json:"kind"`
	OldQuantity int         `json:"old_quantity"`
	NewQuantity int         `json:"new_quantity"`
}

// BomComparison is the result of comparing a base BOM against a target BOM.
type BomComparison struct {
	BaseID    int64          `json:"base_id"`
	TargetID  int64          `json:"target_id"`
	Entries   []BomDiffEntry `json:"entries"`
	Unchanged int            `json:"unchanged"`
}
