package manual

import (
	"sort"

	models "manuals/internal/domain/models/manual"
)

// textSlot is one translatable string and, after translation, its result.
type textSlot struct {
	text   string
	result string
}

// collectSlots lists the translatable strings of a content variant. The
// returned apply writes translated slots back into the variant in the same
// order they were collected.
func collectSlots(content models.Content) ([]textSlot, func([]textSlot)) {
	var slots []textSlot
	var setters []func(string)

	add := func(text string, set func(string)) {
		slots = append(slots, textSlot{text: text})
		setters = append(setters, set)
	}

	switch c := content.(type) {
	case *models.TextContent:
		add(c.Text, func(v string) { c.Text = v })
	case *models.MediaContent:
		add(c.Caption, func(v string) { c.Caption = v })
		add(c.Title, func(v string) { c.Title = v })
		if c.Alt != nil {
			add(*c.Alt, func(v string) { c.Alt = &v })
		}
	case *models.NoticeContent:
		add(c.Title, func(v string) { c.Title = v })
		add(c.Message, func(v string) { c.Message = v })
		add(c.Description, func(v string) { c.Description = v })
	case *models.TableContent:
		add(c.Caption, func(v string) { c.Caption = v })
		for i := range c.Headers {
			add(c.Headers[i], func(v string) { c.Headers[i] = v })
		}
		for i := range c.Rows {
			for j := range c.Rows[i] {
				add(c.Rows[i][j], func(v string) { c.Rows[i][j] = v })
			}
		}
	case *models.ChecklistContent:
		add(c.Title, func(v string) { c.Title = v })
		for i := range c.Items {
			add(c.Items[i].Text, func(v string) { c.Items[i].Text = v })
		}
	case *models.LinkContent:
		add(c.Text, func(v string) { c.Text = v })
		add(c.Description, func(v string) { c.Description = v })
	case *models.BomContent:
		add(c.Title, func(v string) { c.Title = v })
		for _, dict := range []map[string]string{c.Headers, c.Descriptions, c.Messages} {
			for _, key := range sortedKeys(dict) {
				add(dict[key], func(v string) { dict[key] = v })
			}
		}
	}

	apply := func(done []textSlot) {
		for i := range done {
			if done[i].text == "" {
				continue
			}
			setters[i](done[i].result)
		}
	}
	return slots, apply
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
