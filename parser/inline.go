// MIT License

// Copyright (c) 2018 Akhil Indurti

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package parser

import (
	"regexp"
	"sort"
	"strings"

	"akhil.cc/hrml/ast"
)

// span is one inline style match, in byte offsets of the segmented text.
type span struct {
	beg, end int
	kind     ast.Kind
	text     string
}

// spans collects the matches of every inline style. Matches of one style
// never overlap each other, but matches of different styles may.
func (p *Parser) spans(text string) []span {
	var spans []span
	for _, st := range []struct {
		re   *regexp.Regexp
		kind ast.Kind
	}{
		{p.pat.bold, ast.Strong},
		{p.pat.italic, ast.Em},
		{p.pat.underline, ast.Underline},
	} {
		for _, m := range st.re.FindAllStringSubmatchIndex(text, -1) {
			spans = append(spans, span{m[0], m[1], st.kind, text[m[2]:m[3]]})
		}
	}
	// stable, so equal offsets keep the bold, italic, underline order
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].beg < spans[j].beg })
	return spans
}

// segment splits text into plain and styled runs.
//
// Overlapping spans of different styles are emitted as they are found, so
// their text may appear twice in the output.
func (p *Parser) segment(text string) []*ast.Node {
	var (
		nodes []*ast.Node
		last  int
	)
	for _, s := range p.spans(text) {
		if s.beg > last {
			nodes = append(nodes, textNode(text[last:s.beg]))
		}
		nodes = append(nodes, &ast.Node{Kind: s.kind, Content: s.text})
		last = s.end
	}
	if last < len(text) {
		nodes = append(nodes, textNode(text[last:]))
	}
	if len(nodes) == 0 {
		nodes = append(nodes, textNode(text))
	}
	return nodes
}

func textNode(s string) *ast.Node {
	return &ast.Node{Kind: ast.Text, Content: s}
}

// tryInlineElement recognizes a link or an image that makes up the whole line.
func (p *Parser) tryInlineElement(line string) *ast.Node {
	if m := p.pat.link.FindStringSubmatch(line); m != nil {
		n := &ast.Node{Kind: ast.Link, Content: strings.TrimSpace(m[1])}
		n.SetAttr("href", strings.TrimSpace(m[2]))
		return n
	}
	if m := p.pat.image.FindStringSubmatch(line); m != nil {
		n := &ast.Node{Kind: ast.Image}
		n.SetAttr("alt", strings.TrimSpace(m[1]))
		n.SetAttr("src", strings.TrimSpace(m[2]))
		return n
	}
	return nil
}
