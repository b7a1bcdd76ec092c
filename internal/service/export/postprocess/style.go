package postprocess

import (
	"strings"

	"github.com/aymerick/douceur/parser"
)

// declaration is one "property:value" pair of an inline style.
type declaration struct {
	property  string
	value     string
	important bool
}

// parseStyle splits an inline style attribute into declarations, keeping
// order. Values such as url(data:...;base64,...) or quoted strings stay whole.
func parseStyle(style string) ([]declaration, error) {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil, nil
	}
	// the parser only closes a declaration on ";" or "}"
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	parsed, err := parser.ParseDeclarations(style)
	if err != nil {
		return nil, err
	}
	decls := make([]declaration, 0, len(parsed))
	for _, d := range parsed {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{property: prop, value: strings.TrimSpace(d.Value), important: d.Important})
	}
	return decls, nil
}

// setStyle overwrites or appends the given declarations.
func setStyle(decls []declaration, set ...declaration) []declaration {
	for _, d := range set {
		found := false
		for i := range decls {
			if decls[i].property == d.property {
				decls[i] = d
				found = true
			}
		}
		if !found {
			decls = append(decls, d)
		}
	}
	return decls
}

// formatStyle renders declarations without spaces: "a:b;c:d".
func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.property + ":" + d.value
		if d.important {
			parts[i] += "!important"
		}
	}
	return strings.Join(parts, ";")
}
