package manual

import "sort"

// DocumentTree is a document with its sections nested and their modules attached.
type DocumentTree struct {
	Document Document       `json:"document"`
	Sections []*SectionNode `json:"sections"`
}

// SectionNode is one section of a DocumentTree.
type SectionNode struct {
	Section
	Modules    []ContentModule    `json:"modules"`
	Components []SectionComponent `json:"components"`
	Children   []*SectionNode     `json:"children"`
}

// NewDocumentTree nests sections under their parents, ordering siblings and
// modules by order then id. A section whose parent is not in the list is
// placed at the top level.
func NewDocumentTree(
	doc Document,
	sections []Section,
	modules map[int64][]ContentModule,
	components map[int64][]SectionComponent,
) *DocumentTree {
	nodes := make(map[int64]*SectionNode, len(sections))

	// First pass: create all nodes
	for _, s := range sections {
		node := &SectionNode{
			Section:    s,
			Modules:    append([]ContentModule{}, modules[s.ID]...),
			Components: append([]SectionComponent{}, components[s.ID]...),
			Children:   []*SectionNode{},
		}
		sort.SliceStable(node.Modules, func(i, j int) bool {
			a, b := node.Modules[i], node.Modules[j]
			if a.Order != b.Order {
				return a.Order < b.Order
			}
			return a.ID < b.ID
		})
		nodes[s.ID] = node
	}

	// Second pass: connect children to parents
	roots := make([]*SectionNode, 0)
	for _, s := range sections {
		node := nodes[s.ID]
		if s.ParentID != nil {
			if parent, ok := nodes[*s.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	// Third pass: order siblings
	sortNodes(roots)
	for _, node := range nodes {
		sortNodes(node.Children)
	}

	return &DocumentTree{Document: doc, Sections: roots}
}

func sortNodes(nodes []*SectionNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Order != nodes[j].Order {
			return nodes[i].Order < nodes[j].Order
		}
		return nodes[i].ID < nodes[j].ID
	})
}

// Walk visits nodes depth-first, parents before children.
func (t *DocumentTree) Walk(fn func(node *SectionNode, depth int)) {
	var walk func(nodes []*SectionNode, depth int)
	walk = func(nodes []*SectionNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(t.Sections, 0)
}
