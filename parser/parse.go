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

// Package parser implements a parser for hrml source. It takes in a string
// or an io.Reader as input and outputs an *ast.Document.
//
// Source is processed one line at a time. Every line, including the body
// lines of a code block, is trimmed of surrounding whitespace before it is
// classified.
//
// The parser adheres to the following grammar for hrml source files:
//
//      text         = /* an arbitrary sequence of Unicode code points except newline */ .
//      ws           = /* one or more whitespace characters */ .
//      styled       = "js" text "sj" | "jd" text "dj" | "ju" text "uj" .
//      inline       = { text | styled } .
//
//      rule         = "js" .
//      heading      = "j" "f" { "f" } ws inline .
//      quote        = "kl" ws inline .
//      nested_quote = "kll" ws inline .
//      ulist        = "ja" ws inline { newline "ja" ws inline } .
//      olist        = "jl" ws inline { newline "jl" ws inline } .
//      link         = "jg" "[" text "]" "gh" "[" text "]" "hg" .
//      image        = "jh" "[" text "]" "gh" "[" text "]" "hj" .
//      code         = "jkd" [ ws word ] newline { text newline } "dkj" .
//      paragraph    = inline .
//      statement    = rule | heading | nested_quote | quote | ulist | olist |
//                     link | image | code | paragraph .
//      source_file  = { statement | newline } .
//
// Whitespace is allowed around the brackets of links and images.
// A blank line outside of a code block becomes a line break. Markup that
// matches none of the statements becomes a paragraph; the parser never
// reports an error for its input.
package parser // import "akhil.cc/hrml/parser"

import (
	"io"
	"strings"

	"akhil.cc/hrml/ast"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

// tracer traces with key 'hrml'.
func tracer() tracing.Trace {
	return tracing.Select("hrml")
}

// Parser converts hrml source into a document tree. A Parser holds only
// its compiled patterns, so it may be used by multiple goroutines at once.
type Parser struct {
	pat patterns
}

// New returns a Parser with all of its patterns compiled.
func New() (*Parser, error) {
	pat, err := compilePatterns()
	if err != nil {
		return nil, errors.Wrap(err, "parser")
	}
	return &Parser{pat: pat}, nil
}

// MustNew is like New but panics if a pattern cannot be compiled.
func MustNew() *Parser {
	p, err := New()
	if err != nil {
		panic(err.Error())
	}
	return p
}

var std = MustNew()

// Parse reads the source and returns its corresponding document tree.
// The only errors returned are those of reading src.
func Parse(src io.Reader) (*ast.Document, error) {
	return std.ParseReader(src)
}

// MustParse is like Parse but panics if the source cannot be read.
func MustParse(src io.Reader) *ast.Document {
	d, err := Parse(src)
	if err != nil {
		panic("Parse error: " + err.Error())
	}
	return d
}

// ParseReader reads all of src and parses it.
func (p *Parser) ParseReader(src io.Reader) (*ast.Document, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "read source")
	}
	return p.Parse(string(b)), nil
}

// Parse parses src in a single pass over its lines.
//
// Code blocks are tracked between the opening fence and a line holding
// only "dkj". A code block that is still open at the end of src is dropped,
// and a "dkj" line outside of a code block produces no node.
func (p *Parser) Parse(src string) *ast.Document {
	var (
		doc    = &ast.Document{}
		c      = &cursor{lines: lines(src)}
		inCode bool
		lang   string
		body   strings.Builder
	)
	for {
		raw, ok := c.next()
		if !ok {
			break
		}
		line := strings.TrimSpace(raw)
		if line == codeClose && !inCode {
			tracer().Debugf("skipping fence close outside of a code block")
			continue
		}
		if inCode {
			if line == codeClose {
				doc.List = append(doc.List, codeBlock(lang, body.String()))
				inCode, lang = false, ""
				body.Reset()
			} else {
				body.WriteString(line)
				body.WriteByte('\n')
			}
			continue
		}
		if line == "" {
			doc.List = append(doc.List, &ast.Node{Kind: ast.Break})
			continue
		}
		if m := p.pat.codeOpen.FindStringSubmatch(line); m != nil {
			inCode, lang = true, m[1]
			continue
		}
		if n := p.stmt(line, c); n != nil {
			doc.List = append(doc.List, n)
		}
	}
	if inCode {
		tracer().Debugf("dropping unterminated code block (language %q, %d bytes)", lang, body.Len())
	}
	return doc
}

func codeBlock(lang, body string) *ast.Node {
	pre := &ast.Node{Kind: ast.Pre}
	if lang != "" {
		pre.SetAttr("class", "language-"+lang)
	}
	pre.Append(&ast.Node{Kind: ast.Code, Content: strings.TrimSpace(body)})
	return pre
}

// lines splits src at newlines. A trailing newline does not start another
// line, and carriage returns ending a line are dropped.
func lines(src string) []string {
	if src == "" {
		return nil
	}
	ls := strings.Split(src, "\n")
	if ls[len(ls)-1] == "" {
		ls = ls[:len(ls)-1]
	}
	for i := range ls {
		ls[i] = strings.TrimSuffix(ls[i], "\r")
	}
	return ls
}
