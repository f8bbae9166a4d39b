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

package html

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"akhil.cc/hrml/ast"
	"akhil.cc/hrml/internal/htmlcheck"
	"akhil.cc/hrml/parser"
	"github.com/PuerkitoBio/goquery"
)

type smallcase struct {
	in   string
	want string
}

func runCases(t *testing.T, cases []smallcase) {
	t.Helper()
	p := parser.MustNew()
	for i, test := range cases {
		got := Render(p.Parse(test.in).List)
		if test.want != got {
			t.Errorf("case %d, in %q,\nwant %q,\ngot  %q", i, test.in, test.want, got)
		}
		if err := htmlcheck.Check(strings.NewReader(got)); err != nil {
			t.Errorf("case %d, in %q: unbalanced output: %v", i, test.in, err)
		}
	}
}

var blockSmall = []smallcase{
	{"", ""},
	{"js", "<hr>\n"},
	{"jf Title", "<h1>Title</h1>\n"},
	{"jfff Third", "<h3>Third</h3>\n"},
	{"kl said js loudly sj", "<blockquote>said <strong>loudly</strong>\n</blockquote>\n"},
	{"kll deep", "<blockquote><blockquote>deep</blockquote>\n</blockquote>\n"},
	{"a\n\nb", "<p>a</p>\n<br>\n<p>b</p>\n"},
	{"some js bold sj text", "<p>some <strong>bold</strong>\n text</p>\n"},
	{"jd it dj ju un uj", "<p><em>it</em>\n <u>un</u>\n</p>\n"},
	{"<b>not escaped</b>", "<p><b>not escaped</b></p>\n"},
}

func TestBlock(t *testing.T) {
	runCases(t, blockSmall)
}

var listSmall = []smallcase{
	{"ja a\nja b", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n"},
	{"jl one\njl js two sj", "<ol>\n<li>one</li>\n<li><strong>two</strong>\n</li>\n</ol>\n"},
	{"ja a\n\njl b", "<ul>\n<li>a</li>\n</ul>\n<br>\n<ol>\n<li>b</li>\n</ol>\n"},
}

func TestList(t *testing.T) {
	runCases(t, listSmall)
}

var elementSmall = []smallcase{
	{"jg [site] gh [https://example.com] hg", `<a href="https://example.com">site</a>`},
	{"jh [a cat] gh [cat.jpg] hj", `<img alt="a cat" src="cat.jpg"/>`},
	{"see jg [site] gh [x] hg", "<p>see jg [site] gh [x] hg</p>\n"},
}

func TestElement(t *testing.T) {
	runCases(t, elementSmall)
}

var codeSmall = []smallcase{
	{"jkd lang\nLINE1\nLINE2\ndkj", "<pre class=\"language-lang\">\n<code>LINE1\nLINE2</code></pre>\n"},
	{"jkd\nif a < b && c > d {\ndkj", "<pre>\n<code>if a &lt; b &amp;&amp; c &gt; d {</code></pre>\n"},
	{"jkd\n\"quoted\" 'too'\ndkj", "<pre>\n<code>\"quoted\" 'too'</code></pre>\n"},
	{"jkd go\nunterminated", ""},
}

func TestEscape(t *testing.T) {
	runCases(t, codeSmall)
}

func TestEscapeCodeIsPure(t *testing.T) {
	for _, s := range []string{"", "plain", "a < b", "&amp;", "<<>>&&", "日本 & <語>"} {
		first, second := EscapeCode(s), EscapeCode(s)
		if first != second {
			t.Errorf("EscapeCode(%q) is not stable: %q then %q", s, first, second)
		}
	}
	if got, want := EscapeCode("&lt;"), "&amp;lt;"; got != want {
		t.Errorf("EscapeCode(%q) = %q, want %q", "&lt;", got, want)
	}
}

func TestRenderNodes(t *testing.T) {
	for i, test := range []struct {
		nodes []*ast.Node
		want  string
	}{
		{
			[]*ast.Node{{Kind: ast.Link, Content: "[text]", Attr: map[string]string{"href": "[[url]]"}}},
			`<a href="url">text</a>`,
		},
		{
			[]*ast.Node{{Kind: ast.Image, Attr: map[string]string{"src": "[s]", "alt": "a", "class": "c"}}},
			`<img alt="a" class="c" src="s"/>`,
		},
		{
			[]*ast.Node{{Kind: ast.Heading, Level: 0, Content: "zero"}},
			"<h0>zero</h0>\n",
		},
		{
			[]*ast.Node{{Kind: ast.Item, Content: "loose"}},
			"<li>loose</li>\n",
		},
		{
			[]*ast.Node{{Kind: ast.Blockquote, Content: "said"}},
			"<blockquote>said</blockquote>\n",
		},
		{
			[]*ast.Node{{Kind: ast.Kind(99), Children: []*ast.Node{{Kind: ast.Text, Content: "x"}}}},
			"<kind99>\nx</kind99>\n",
		},
		{
			[]*ast.Node{{Kind: ast.Kind(99)}},
			"",
		},
		{
			[]*ast.Node{{Kind: ast.Pre, Children: []*ast.Node{
				{Kind: ast.Text, Content: "skipped"},
				{Kind: ast.Code, Content: "a"},
				{Kind: ast.Code, Content: "b"},
			}}},
			"<pre>\n<code>a</code><code>b</code></pre>\n",
		},
	} {
		if got := Render(test.nodes); got != test.want {
			t.Errorf("case %d: want %q, got %q", i, test.want, got)
		}
	}
}

const demo = `jf hey
jff welcome to the demo
This is some bold js text sj and some italic jd text dj!
kl let's create a list!
ja info
ja more info
jl first
jl second
jl third!
kll some code!
jkd python
# Some Python!
print("1 < 2")
dkj
jh [dream car] gh [car.jpg] hj
js
jg [other work] gh [https://example.com] hg
`

func TestStructure(t *testing.T) {
	out := Render(parser.MustParse(strings.NewReader(demo)).List)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	for sel, want := range map[string]int{
		"h1":                    1,
		"h2":                    1,
		"ul > li":               2,
		"ol > li":               3,
		"blockquote":            3,
		"blockquote blockquote": 1,
		"pre.language-python":   1,
		"img[src='car.jpg']":    1,
		"a[href]":               1,
		"hr":                    1,
	} {
		if got := doc.Find(sel).Length(); got != want {
			t.Errorf("%s: found %d, want %d", sel, got, want)
		}
	}
	if got, want := doc.Find("pre code").Text(), "# Some Python!\nprint(\"1 < 2\")"; got != want {
		t.Errorf("code text = %q, want %q", got, want)
	}
	if err := htmlcheck.Check(strings.NewReader(out)); err != nil {
		t.Error(err)
	}
}

func TestGeneratorOutput(t *testing.T) {
	doc := parser.MustParse(strings.NewReader(demo))
	g := Gen(doc)
	b, err := g.Output()
	if err != nil {
		t.Fatal(err)
	}
	if want := Render(doc.List); string(b) != want {
		t.Errorf("generator output differs from Render:\nwant %q\ngot  %q", want, b)
	}
	if g.BytesWritten() != int64(len(b)) {
		t.Errorf("BytesWritten = %d, want %d", g.BytesWritten(), len(b))
	}
}

func TestGeneratorStandalone(t *testing.T) {
	g := Gen(parser.MustParse(strings.NewReader("jf Hi")))
	g.Standalone = true
	g.Title = "a < b"
	b, err := g.Output()
	if err != nil {
		t.Fatal(err)
	}
	want := "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>a &lt; b</title>\n</head>\n<body>\n" +
		"<h1>Hi</h1>\n" +
		"</body>\n</html>\n"
	if string(b) != want {
		t.Errorf("want %q,\ngot  %q", want, b)
	}
	if err := htmlcheck.Check(bytes.NewReader(b)); err != nil {
		t.Error(err)
	}
}

func TestStandalone(t *testing.T) {
	body := Render(parser.MustParse(strings.NewReader("jf Hi")).List)
	var b bytes.Buffer
	if err := Standalone(&b, "a < b", body); err != nil {
		t.Fatal(err)
	}
	g := Gen(parser.MustParse(strings.NewReader("jf Hi")))
	g.Standalone = true
	g.Title = "a < b"
	want, err := g.Output()
	if err != nil {
		t.Fatal(err)
	}
	if b.String() != string(want) {
		t.Errorf("want %q,\ngot  %q", want, b.String())
	}
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStandaloneWriteError(t *testing.T) {
	if err := Standalone(errWriter{}, "t", "<p>x</p>\n"); err == nil || err.Error() != "disk full" {
		t.Errorf("err = %v, want disk full", err)
	}
}

func TestGeneratorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b, err := GenContext(ctx, parser.MustParse(strings.NewReader("a\nb"))).Output()
	if err != context.Canceled {
		t.Errorf("err = %v, want %v", err, context.Canceled)
	}
	if len(b) != 0 {
		t.Errorf("wrote %q after cancellation", b)
	}
}

func TestGeneratorHighlight(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	src := "jkd go\nx := 1\ndkj\njkd\n<plain>\ndkj"
	g := Gen(parser.MustParse(strings.NewReader(src)))
	g.Highlight = `sh -c "printf '%s:' {lang}; cat"`
	b, err := g.Output()
	if err != nil {
		t.Fatal(err)
	}
	want := "<pre class=\"language-go\">\n<code>go:x := 1</code></pre>\n" +
		"<pre>\n<code>&lt;plain&gt;</code></pre>\n"
	if string(b) != want {
		t.Errorf("want %q,\ngot  %q", want, b)
	}
}

func TestGeneratorHighlightFails(t *testing.T) {
	g := Gen(parser.MustParse(strings.NewReader("jkd go\nx\ndkj")))
	g.Highlight = "/nonexistent/highlighter"
	if _, err := g.Output(); err == nil {
		t.Error("expected an error from a missing highlighter")
	}
}

func TestWaitBeforeStart(t *testing.T) {
	if err := Gen(&ast.Document{}).Wait(); err == nil {
		t.Error("expected an error")
	}
}
