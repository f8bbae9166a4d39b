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
	"strings"

	"github.com/pkg/errors"
)

const (
	// headingSigils are the characters counted to derive a heading's level.
	headingSigils = "jf"
	codeClose     = "dkj"
)

// patterns holds one compiled matcher per construct. Matchers are
// immutable and shared by every call on a Parser.
type patterns struct {
	heading     *regexp.Regexp
	bold        *regexp.Regexp
	italic      *regexp.Regexp
	underline   *regexp.Regexp
	ulist       *regexp.Regexp
	olist       *regexp.Regexp
	quote       *regexp.Regexp
	nestedQuote *regexp.Regexp
	hr          *regexp.Regexp
	link        *regexp.Regexp
	image       *regexp.Regexp
	codeOpen    *regexp.Regexp
}

// Whitespace and word characters follow Unicode, so a no-break space
// separates a sigil and a language name may hold letters of any script.
var unicodeClasses = strings.NewReplacer(
	`\s`, `[\s\v\p{Z}\x{85}]`,
	`\w`, `[\pL\pM\pN\p{Pc}]`,
)

func compilePatterns() (patterns, error) {
	var p patterns
	for _, d := range []struct {
		re   **regexp.Regexp
		expr string
	}{
		{&p.heading, `^jf+\s+(.+)`},
		{&p.bold, `js\s*(.+?)\s*sj`},
		{&p.italic, `jd\s*(.+?)\s*dj`},
		{&p.underline, `ju\s*(.+?)\s*uj`},
		{&p.ulist, `^ja\s+(.+)`},
		{&p.olist, `^jl\s+(.+)`},
		{&p.quote, `^kl\s+(.+)`},
		{&p.nestedQuote, `^kll\s+(.+)`},
		{&p.hr, `^js\s*$`},
		{&p.link, `^jg\s*\[(.+?)\]\s*gh\s*\[(.+?)\]\s*hg$`},
		{&p.image, `^jh\s*\[(.+?)\]\s*gh\s*\[(.+?)\]\s*hj$`},
		{&p.codeOpen, `^jkd(?:\s+(\w+))?$`},
	} {
		expr := unicodeClasses.Replace(d.expr)
		re, err := regexp.Compile(expr)
		if err != nil {
			return patterns{}, errors.Wrapf(err, "compile pattern %q", expr)
		}
		*d.re = re
	}
	return p, nil
}
