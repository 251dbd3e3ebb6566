package dom

// Document owns a tree of nodes rooted at a document element and provides
// the document-wide element lookup.
type Document struct {
	root *Node
	body *Node
}

// NewDocument creates an empty document with an html root and a body.
func NewDocument() *Document {
	doc := &Document{}
	doc.root = newNode(doc, "html")
	doc.body = newNode(doc, "body")
	_ = doc.root.AppendChild(doc.body)
	return doc
}

// CreateElement returns a detached element owned by the document.
func (d *Document) CreateElement(tag string) *Node {
	return newNode(d, tag)
}

// Root returns the document element.
func (d *Document) Root() *Node { return d.root }

// Body returns the body element.
func (d *Document) Body() *Node { return d.body }

// Walk visits every element under the root in tree order, root excluded.
// Returning false from visit stops the walk.
func (d *Document) Walk(visit func(*Node) bool) {
	walk(d.root, visit)
}

func walk(n *Node, visit func(*Node) bool) bool {
	for _, child := range n.Children() {
		if !visit(child) {
			return false
		}
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

// GetElementByID returns the first element in tree order with the id.
func (d *Document) GetElementByID(id string) *Node {
	if id == "" {
		return nil
	}
	var found *Node
	d.Walk(func(n *Node) bool {
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// QuerySelectorAll returns every element matching selector in tree order.
func (d *Document) QuerySelectorAll(selector string) ([]*Node, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}

	var out []*Node
	d.Walk(func(n *Node) bool {
		if sel.Match(n) {
			out = append(out, n)
		}
		return true
	})
	return out, nil
}

// QuerySelector returns the first match, or nil.
func (d *Document) QuerySelector(selector string) (*Node, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}

	var found *Node
	d.Walk(func(n *Node) bool {
		if sel.Match(n) {
			found = n
			return false
		}
		return true
	})
	return found, nil
}
