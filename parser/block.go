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
	"strconv"
	"strings"

	"akhil.cc/hrml/ast"
)

// cursor walks the lines of a document. Multi-line constructs peek at the
// next line and only advance when they take it.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) peek() (string, bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	return c.lines[c.pos], true
}

func (c *cursor) next() (string, bool) {
	l, ok := c.peek()
	if ok {
		c.pos++
	}
	return l, ok
}

// statement = rule | heading | nested_quote | quote | list | link | image | paragraph .
func (p *Parser) stmt(line string, c *cursor) *ast.Node {
	if n := p.tryBlock(line); n != nil {
		return n
	}
	if n := p.tryList(line, c); n != nil {
		return n
	}
	if n := p.tryInlineElement(line); n != nil {
		return n
	}
	if runs := p.segment(line); len(runs) > 0 {
		return &ast.Node{Kind: ast.Paragraph, Children: runs}
	}
	return nil
}

// tryBlock matches the single-line block constructs. The first match wins.
func (p *Parser) tryBlock(line string) *ast.Node {
	if p.pat.hr.MatchString(line) {
		return &ast.Node{Kind: ast.Rule}
	}
	if m := p.pat.heading.FindStringSubmatch(line); m != nil {
		return &ast.Node{
			Kind:    ast.Heading,
			Level:   headingLevel(line),
			Content: strings.TrimSpace(m[1]),
		}
	}
	if m := p.pat.nestedQuote.FindStringSubmatch(line); m != nil {
		outer := p.quote("", 1)
		outer.Append(p.quote(m[1], 2))
		return outer
	}
	if m := p.pat.quote.FindStringSubmatch(line); m != nil {
		return p.quote(m[1], 1)
	}
	return nil
}

// headingLevel is the number of leading heading sigils minus one.
func headingLevel(line string) int {
	return len(line) - len(strings.TrimLeft(line, headingSigils)) - 1
}

func (p *Parser) quote(text string, depth int) *ast.Node {
	n := &ast.Node{Kind: ast.Blockquote}
	n.SetAttr("level", strconv.Itoa(depth))
	if text != "" {
		n.Children = p.segment(strings.TrimSpace(text))
	}
	return n
}

// tryList turns line and every directly following item of the same type
// into a single list. The line that ends the run is left to the caller.
func (p *Parser) tryList(line string, c *cursor) *ast.Node {
	var (
		kind ast.Kind
		re   *regexp.Regexp
	)
	switch {
	case p.pat.ulist.MatchString(line):
		kind, re = ast.UList, p.pat.ulist
	case p.pat.olist.MatchString(line):
		kind, re = ast.OList, p.pat.olist
	default:
		return nil
	}
	list := &ast.Node{Kind: kind}
	for {
		if m := re.FindStringSubmatch(line); m != nil {
			list.Append(&ast.Node{Kind: ast.Item, Children: p.segment(strings.TrimSpace(m[1]))})
		}
		next, ok := c.peek()
		if !ok || !re.MatchString(strings.TrimSpace(next)) {
			break
		}
		c.next()
		line = strings.TrimSpace(next)
	}
	return list
}
