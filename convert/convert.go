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

// Package convert exposes hrml to host programs as two calls: construct a
// Converter, then convert strings to HTML with it. Every call is traced
// under the key 'hrml'.
package convert

import (
	"fmt"
	"io"
	"strings"

	"akhil.cc/hrml/ast"
	"akhil.cc/hrml/gen/html"
	"akhil.cc/hrml/parser"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"go4.org/bytereplacer"
)

// tracer traces with key 'hrml'.
func tracer() tracing.Trace {
	return tracing.Select("hrml")
}

// Converter turns hrml source into HTML. It is safe for concurrent use.
type Converter struct {
	p *parser.Parser
}

// New returns a Converter with a freshly compiled parser.
func New() *Converter {
	tracer().Infof("initializing converter")
	return &Converter{p: parser.MustNew()}
}

var sanitizer = bytereplacer.New(
	"\r\n", "\n",
	"\r", "\n",
	"\x00", "",
)

// Sanitize normalizes line endings to "\n" and removes NUL bytes.
func Sanitize(s string) string {
	return string(sanitizer.Replace([]byte(s)))
}

// ParseReader reads all of r, sanitizes it and parses it. Unlike
// ParseToHTML, blank input yields an empty document.
func (c *Converter) ParseReader(r io.Reader) (*ast.Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read source")
	}
	return c.p.Parse(Sanitize(string(b))), nil
}

// ParseToHTML returns the HTML for input, or the empty string if input
// holds nothing but whitespace.
func (c *Converter) ParseToHTML(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	tracer().Debugf("parsing input: %q", input)
	doc := c.p.Parse(Sanitize(input))
	out := html.Render(doc.List)
	tracer().Debugf("generated HTML from %d nodes: %q", Count(doc), out)
	return out
}

// Count returns the number of nodes in doc, nested nodes included.
func Count(doc *ast.Document) int {
	n := 0
	ast.WalkDocument(doc, func(*ast.Node) error {
		n++
		return nil
	})
	return n
}

var selfTests = []string{
	"js bold text sj",
	"ja list item",
	"kl quote",
}

// SelfTest converts a few fixed inputs and reports each input next to
// its output.
func (c *Converter) SelfTest() string {
	var b strings.Builder
	for _, in := range selfTests {
		fmt.Fprintf(&b, "Input: %s\nOutput: %s\n\n", in, c.ParseToHTML(in))
	}
	return b.String()
}

// DemoDocument exercises every construct of the language.
const DemoDocument = `jf hey
jff welcome to the HRML demo
jfff you can do up to six headings!
This is some bold js text sj, some italic jd text dj and some underlined ju text uj!
kl let's create a list!
ja info
ja more info
jl first
jl second
jl third!
kll some code!
jkd python
# Some Python!
print("this is so much better than Markdown, right? ;)")
dkj
jffff cool car!
jh [dream car, really] gh [https://example.com/car.jpg] hj
js
jg [check out my other work!] gh [https://example.com] hg`
