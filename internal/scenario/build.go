package scenario

import (
	"sort"

	"github.com/conneroisu/chassis/internal/dom"
)

// Build creates the element under parent, children included.
func (e *Element) Build(doc *dom.Document, parent *dom.Node) (*dom.Node, error) {
	node := doc.CreateElement(e.Tag)

	if e.ID != "" {
		node.SetAttribute("id", e.ID)
	}
	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		node.SetAttribute(k, e.Attrs[k])
	}
	for _, class := range e.Classes {
		node.AddClass(class)
	}
	if e.Value != "" {
		node.SetValue(e.Value)
	}
	if e.Text != "" {
		node.SetText(e.Text)
	}

	for i := range e.Children {
		if _, err := e.Children[i].Build(doc, node); err != nil {
			return nil, err
		}
	}

	if err := parent.AppendChild(node); err != nil {
		return nil, err
	}
	return node, nil
}

// BuildDocument appends every element of s to the body of doc.
func (s *Scenario) BuildDocument(doc *dom.Document) error {
	for i := range s.Document {
		if _, err := s.Document[i].Build(doc, doc.Body()); err != nil {
			return err
		}
	}
	return nil
}
