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

// Package htmlcheck verifies that generated HTML is balanced: every
// element that is opened is closed again, in order.
package htmlcheck

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var void = map[atom.Atom]bool{
	atom.Br:    true,
	atom.Hr:    true,
	atom.Img:   true,
	atom.Meta:  true,
	atom.Link:  true,
	atom.Input: true,
	atom.Wbr:   true,
}

// Check tokenizes the HTML read from r and returns an error for the first
// end tag that does not close the innermost open element, or for elements
// still open when r is exhausted.
func Check(r io.Reader) error {
	tok := html.NewTokenizerFragment(r, "div")
	var open []string
	for {
		switch tok.Next() {
		case html.ErrorToken:
			if err := tok.Err(); err != io.EOF {
				return errors.Wrap(err, "tokenize")
			}
			if len(open) > 0 {
				return errors.Errorf("unclosed <%s>", open[len(open)-1])
			}
			return nil
		case html.StartTagToken:
			name, _ := tok.TagName()
			if void[atom.Lookup(name)] {
				continue
			}
			open = append(open, string(name))
		case html.EndTagToken:
			name, _ := tok.TagName()
			if len(open) == 0 {
				return errors.Errorf("unexpected </%s>", name)
			}
			if top := open[len(open)-1]; top != string(name) {
				return errors.Errorf("</%s> closes <%s>", name, top)
			}
			open = open[:len(open)-1]
		}
	}
}
