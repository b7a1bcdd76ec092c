// Package postprocess rewrites rendered export HTML with an ordered list of
// DOM rules before the fragment is packaged.
package postprocess

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"manuals/internal/metrics"
)

// Rule is one rewrite over the parsed fragment. root is a synthetic wrapper
// around the fragment's top-level nodes. Apply reports whether it changed the tree.
type Rule interface {
	Name() string
	Apply(root *goquery.Selection) bool
}

// Processor applies its rules in order.
type Processor struct {
	rules  []Rule
	logger *slog.Logger
}

// NewProcessor creates a processor running rules in the given order
func NewProcessor(logger *slog.Logger, rules ...Rule) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{rules: rules, logger: logger}
}

// NewDefaultProcessor builds the export processor: warning colours first,
// then the section overrides shipped with the binary.
func NewDefaultProcessor(logger *slog.Logger) (*Processor, error) {
	overrides, err := LoadOverrides()
	if err != nil {
		return nil, err
	}
	rules := []Rule{NewWarningColorRule()}
	for _, o := range overrides {
		rules = append(rules, NewSectionOverrideRule(o))
	}
	return NewProcessor(logger, rules...), nil
}

// Process returns the rewritten fragment. When no rule changes anything, or
// the input cannot be parsed, input is returned unchanged.
func (p *Processor) Process(input string) string {
	if strings.TrimSpace(input) == "" {
		return input
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(input), body)
	if err != nil {
		p.logger.Warn("export html not parsable, skipping post-processing", "error", err)
		return input
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	doc := goquery.NewDocumentFromNode(root)

	changed := false
	for _, rule := range p.rules {
		if rule.Apply(doc.Selection) {
			changed = true
			metrics.PostProcessRulesTotal.WithLabelValues(rule.Name()).Inc()
			p.logger.Debug("post-process rule applied", "rule", rule.Name())
		}
	}
	if !changed {
		return input
	}

	var sb strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			p.logger.Warn("render post-processed html failed", "error", err)
			return input
		}
	}
	return sb.String()
}
