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

// Package html converts a parsed hrml document into html output.
// Text inside code blocks is escaped; all other text is written as it
// appears in the source.
//
// AST node kinds correspond to the following HTML tags:
// 	Text                        (no tag)
// 	Strong                      <strong></strong>
// 	Em                          <em></em>
// 	Underline                   <u></u>
// 	Heading                     <h1></h1>, <h2></h2>, ... named after its level
// 	Break                       <br>
// 	Rule                        <hr>
// 	Image                       <img alt="" src=""/>
// 	Link                        <a href=""></a>
// 	Blockquote                  <blockquote></blockquote>
// 	UList                       <ul></ul>
// 	OList                       <ol></ol>
// 	Item                        <li></li>
// 	Paragraph                   <p></p>
// 	Pre                         <pre class="language-..."><code></code></pre>
//
// Code blocks that name a language may be passed through an external
// highlighter command, parsed according to the Bourne shell's
// word-splitting rules.
package html // import "akhil.cc/hrml/gen/html"

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"io/ioutil"
	"sort"
	"strings"
	"sync"

	"akhil.cc/hrml/ast"
	"akhil.cc/hrml/gen"
	"go4.org/bytereplacer"
)

type syncWriter struct {
	m sync.Mutex
	w io.Writer
}

func (s *syncWriter) Write(p []byte) (n int, err error) {
	s.m.Lock()
	defer s.m.Unlock()
	n, err = s.w.Write(p)
	return
}

type stickyCountWriter struct {
	n   int64
	err error
	w   io.Writer
}

func (c *stickyCountWriter) Write(p []byte) (n int, err error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err = c.w.Write(p)
	c.err = err
	c.n += int64(n)
	return
}

// Render returns the HTML for nodes.
func Render(nodes []*ast.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		render(&b, n)
	}
	return b.String()
}

var codeEscaper = bytereplacer.New(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeCode escapes the characters of s that are special inside an
// HTML element's text.
func EscapeCode(s string) string {
	return string(codeEscaper.Replace([]byte(s)))
}

func trimBrackets(s string) string {
	return strings.Trim(s, "[]")
}

func render(b *strings.Builder, n *ast.Node) {
	switch n.Kind {
	case ast.Text:
		b.WriteString(n.Content)
	case ast.Break:
		b.WriteString("<br>\n")
	case ast.Rule:
		b.WriteString("<hr>\n")
	case ast.Image:
		keys := make([]string, 0, len(n.Attr))
		for k := range n.Attr {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("<img")
		for _, k := range keys {
			fmt.Fprintf(b, ` %s="%s"`, k, trimBrackets(n.Attr[k]))
		}
		b.WriteString("/>")
	case ast.Link:
		fmt.Fprintf(b, `<a href="%s">%s</a>`, trimBrackets(n.Attr["href"]), trimBrackets(n.Content))
	case ast.Blockquote:
		b.WriteString("<blockquote>")
		b.WriteString(n.Content)
		children(b, n)
		b.WriteString("</blockquote>\n")
	case ast.UList, ast.OList:
		b.WriteString("<" + n.Tag() + ">\n")
		children(b, n)
		b.WriteString("</" + n.Tag() + ">\n")
	case ast.Item:
		b.WriteString("<li>")
		b.WriteString(n.Content)
		children(b, n)
		b.WriteString("</li>\n")
	case ast.Paragraph:
		b.WriteString("<p>")
		children(b, n)
		b.WriteString("</p>\n")
	case ast.Pre:
		openPre(b, n)
		for _, c := range n.Children {
			if c.Kind == ast.Code {
				b.WriteString("<code>" + EscapeCode(c.Content) + "</code>")
			}
		}
		b.WriteString("</pre>\n")
	default:
		if n.Content != "" {
			fmt.Fprintf(b, "<%[1]s>%[2]s</%[1]s>\n", n.Tag(), n.Content)
		} else if len(n.Children) > 0 {
			b.WriteString("<" + n.Tag() + ">\n")
			children(b, n)
			b.WriteString("</" + n.Tag() + ">\n")
		}
	}
}

func children(b *strings.Builder, n *ast.Node) {
	for _, c := range n.Children {
		render(b, c)
	}
}

func openPre(b *strings.Builder, n *ast.Node) {
	if class, ok := n.Attr["class"]; ok {
		fmt.Fprintf(b, "<pre class=\"%s\">\n", class)
	} else {
		b.WriteString("<pre>\n")
	}
}

// Generator represents a non-reusable HTML output generator for an *ast.Document.
type Generator struct {
	// Stdout and Stderr specify the generator's standard output and standard error.
	//
	// HTML output will be written to standard out. Standard error is only
	// written by the Highlight command.
	//
	// If Stdout == Stderr, at most one goroutine at a time will call Write.
	Stdout io.Writer
	Stderr io.Writer

	// Highlight is a command line that code blocks naming a language are
	// piped through. The word "{lang}" is replaced by the block's language.
	// Its standard output replaces the escaped code.
	Highlight string

	// If Standalone is set, the output is a complete HTML document
	// with the given Title instead of a fragment.
	Standalone bool
	Title      string

	ctx      context.Context
	doc      *ast.Document
	waitdone chan error
	written  int64

	m     sync.Mutex
	pipes []io.Closer
}

// Gen returns the Generator struct to convert the given document into HTML output.
//
// It sets only the document in the returned structure.
func Gen(doc *ast.Document) *Generator {
	return &Generator{ctx: context.TODO(), doc: doc}
}

// GenContext is like Gen but includes a context.
//
// The provided context is used both to halt HTML generation
// after writing a top-level node, and to kill a running Highlight command.
func GenContext(ctx context.Context, doc *ast.Document) *Generator {
	if ctx == nil {
		panic("nil context")
	}
	return &Generator{ctx: ctx, doc: doc}
}

// Start starts the generator but does not wait for it to complete.
func (g *Generator) Start() error {
	if g.Stdout == nil {
		g.Stdout = ioutil.Discard
	}
	if g.Stderr == nil {
		g.Stderr = ioutil.Discard
	}
	if g.Stdout == g.Stderr {
		g.Stdout = &syncWriter{w: g.Stdout}
		g.Stderr = g.Stdout
	}
	g.waitdone = make(chan error)
	go func() {
		err := g.gen()
		g.m.Lock()
		for _, p := range g.pipes {
			p.Close()
		}
		g.pipes = nil
		g.m.Unlock()
		g.waitdone <- err
	}()
	return nil
}

// Wait waits for the generator to complete and finish copying to
// Stdout and Stderr. It is an error to call Wait before Start
// has been called.
//
// Wait will release any resources associated with the generator.
func (g *Generator) Wait() error {
	if g.waitdone == nil {
		return fmt.Errorf("not started")
	}
	err := <-g.waitdone
	close(g.waitdone)
	return err
}

// Run starts the generator and waits for it to complete, returning
// any errors enountered.
func (g *Generator) Run() error {
	if err := g.Start(); err != nil {
		return err
	}
	return g.Wait()
}

// StdoutPipe returns a pipe that is connected to the generator's
// standard output.
//
// Wait should not be called until all reads from the pipe have completed.
// For the same reason, it is invalid to call Run when using StdoutPipe.
func (g *Generator) StdoutPipe() (io.Reader, error) {
	if g.Stdout != nil {
		return nil, fmt.Errorf("Stdout already set")
	}
	pr, pw := io.Pipe()
	g.Stdout = pw
	g.pipes = append(g.pipes, pw)
	return pr, nil
}

// StderrPipe returns a pipe that is connected to the generator's
// standard error.
//
// Wait should not be called until all reads from the pipe have completed.
// For the same reason, it is invalid to call Run when using StderrPipe.
func (g *Generator) StderrPipe() (io.Reader, error) {
	if g.Stderr != nil {
		return nil, fmt.Errorf("Stderr already set")
	}
	pr, pw := io.Pipe()
	g.Stderr = pw
	g.pipes = append(g.pipes, pw)
	return pr, nil
}

// Output runs the generator and returns its standard output.
func (g *Generator) Output() ([]byte, error) {
	if g.Stdout != nil {
		return nil, fmt.Errorf("Stdout already set")
	}
	var stdout bytes.Buffer
	g.Stdout = &stdout
	err := g.Run()
	return stdout.Bytes(), err
}

// CombinedOutput runs the generator and returns its combined
// standard output and standard error.
func (g *Generator) CombinedOutput() ([]byte, error) {
	if g.Stdout != nil {
		return nil, fmt.Errorf("Stdout already set")
	}
	if g.Stderr != nil {
		return nil, fmt.Errorf("Stderr already set")
	}
	var b bytes.Buffer
	g.Stdout = &b
	g.Stderr = &b
	err := g.Run()
	return b.Bytes(), err
}

// BytesWritten reports the number of bytes written to Stdout.
// It is only meaningful after Wait has returned.
func (g *Generator) BytesWritten() int64 {
	return g.written
}

const (
	docHead = "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n"
	docTail = "</body>\n</html>\n"
)

// Standalone writes body, a rendered fragment, to w wrapped in a minimal
// HTML document. The title is escaped.
func Standalone(w io.Writer, title, body string) error {
	cw := &stickyCountWriter{0, nil, w}
	fmt.Fprintf(cw, docHead, html.EscapeString(title))
	io.WriteString(cw, body)
	io.WriteString(cw, docTail)
	return cw.err
}

func (g *Generator) gen() error {
	cw := &stickyCountWriter{0, nil, g.Stdout}
	defer func() { g.written = cw.n }()
	if g.Standalone {
		fmt.Fprintf(cw, docHead, html.EscapeString(g.Title))
	}
	var b strings.Builder
	for _, n := range g.doc.List {
		select {
		case <-g.ctx.Done():
			if cw.err != nil {
				return cw.err
			}
			return g.ctx.Err()
		default:
		}
		if n.Kind == ast.Pre && g.Highlight != "" && n.Attr["class"] != "" {
			if err := g.highlight(n, cw); err != nil {
				return err
			}
			continue
		}
		b.Reset()
		render(&b, n)
		io.WriteString(cw, b.String())
	}
	if g.Standalone {
		io.WriteString(cw, docTail)
	}
	return cw.err
}

func (g *Generator) highlight(pre *ast.Node, w io.Writer) error {
	var b strings.Builder
	openPre(&b, pre)
	io.WriteString(w, b.String())
	c := &gen.Command{Ctx: g.ctx, Stderr: g.Stderr, Line: g.Highlight}
	lang := strings.TrimPrefix(pre.Attr["class"], "language-")
	for _, code := range pre.Children {
		if code.Kind != ast.Code {
			continue
		}
		io.WriteString(w, "<code>")
		if err := c.Gen(lang, code.Content, w); err != nil {
			return err
		}
		io.WriteString(w, "</code>")
	}
	_, err := io.WriteString(w, "</pre>\n")
	return err
}
