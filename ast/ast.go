package ast

import "strconv"

// Kind identifies the element a Node stands for.
type Kind int

const (
	Text Kind = iota
	Strong
	Em
	Underline
	Break
	Rule
	Image
	Link
	Blockquote
	UList
	OList
	Item
	Paragraph
	Pre
	Code
	Heading
)

var kindTags = [...]string{
	Text:       "text",
	Strong:     "strong",
	Em:         "em",
	Underline:  "u",
	Break:      "br",
	Rule:       "hr",
	Image:      "img",
	Link:       "a",
	Blockquote: "blockquote",
	UList:      "ul",
	OList:      "ol",
	Item:       "li",
	Paragraph:  "p",
	Pre:        "pre",
	Code:       "code",
	Heading:    "h",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindTags) {
		return kindTags[k]
	}
	return "kind" + strconv.Itoa(int(k))
}

// Node is the single element type of a parsed document. A node either
// carries Content or Children, never both.
type Node struct {
	Kind Kind
	// Level is the heading level and is only meaningful for Heading.
	Level    int
	Content  string
	Attr     map[string]string
	Children []*Node
}

// Tag returns the HTML tag name of the node. Headings are named after
// their level, so a level 0 heading yields "h0".
func (n *Node) Tag() string {
	if n.Kind == Heading {
		return "h" + strconv.Itoa(n.Level)
	}
	return n.Kind.String()
}

func (n *Node) SetAttr(key, value string) {
	if n.Attr == nil {
		n.Attr = make(map[string]string)
	}
	n.Attr[key] = value
}

func (n *Node) Append(c ...*Node) {
	n.Children = append(n.Children, c...)
}

// Document is the flat, ordered list of top-level nodes of one input.
type Document struct {
	List []*Node
}

// Walk calls f for n and then for each of its descendants in document order.
// It stops at the first error returned by f.
func Walk(n *Node, f Walker) error {
	if n == nil {
		return nil
	}
	if err := f(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := Walk(c, f); err != nil {
			return err
		}
	}
	return nil
}

// WalkDocument walks every top-level node of d in order.
func WalkDocument(d *Document, f Walker) error {
	for _, n := range d.List {
		if err := Walk(n, f); err != nil {
			return err
		}
	}
	return nil
}

type Walker func(*Node) error
