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

// This CLI utility converts hrml source files into HTML.
//
// Usage:
//   hrml [command]
//
// Available Commands:
//   demo        Run the self test and convert the bundled demo document
//   help        Help about any command
//   html        HTML output generator for hrml source files
//   tree        Print the parsed node tree of an hrml source file
//
// Flags:
//   -c, --config   configuration file (.toml, .yaml or .yml)
//   -h, --help     help for hrml
//       --trace    trace level: error, info or debug
//
// Use "hrml [command] --help" for more information about a command.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"akhil.cc/hrml/convert"
	"akhil.cc/hrml/gen/html"
	"akhil.cc/hrml/internal/config"
	"akhil.cc/hrml/internal/htmlcheck"
	"github.com/dustin/go-humanize"
	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

func prefix(msg string, err error) error {
	return errors.New(msg + err.Error())
}

// tracer traces with key 'hrml'.
func tracer() tracing.Trace {
	return tracing.Select("hrml")
}

func setTrace(level string) error {
	t := tracer()
	switch strings.ToLower(level) {
	case "error":
		t.SetTraceLevel(tracing.LevelError)
	case "info":
		t.SetTraceLevel(tracing.LevelInfo)
	case "debug":
		t.SetTraceLevel(tracing.LevelDebug)
	default:
		return fmt.Errorf("unknown trace level %q", level)
	}
	return nil
}

// openInput returns the named file, or standard input if args is empty.
func openInput(args []string) (*os.File, error) {
	if len(args) != 0 {
		return os.Open(args[0])
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		tracer().Infof("reading hrml source from the terminal, end input with Ctrl-D")
	}
	return os.Stdin, nil
}

type htmlOptions struct {
	output     string
	timeout    time.Duration
	highlight  string
	standalone bool
	title      string
	check      bool
}

// merge copies the values of c into o for every flag that was not set
// explicitly on the command line.
func (o *htmlOptions) merge(cmd *cobra.Command, c *config.Config) error {
	changed := cmd.Flags().Changed
	if !changed("output") && c.Output != "" {
		o.output = c.Output
	}
	if !changed("timeout") {
		d, err := c.TimeoutDuration()
		if err != nil {
			return err
		}
		if d > -1 {
			o.timeout = d
		}
	}
	if !changed("highlight") && c.Highlight != "" {
		o.highlight = c.Highlight
	}
	if !changed("standalone") && c.Standalone {
		o.standalone = true
	}
	if !changed("title") && c.Title != "" {
		o.title = c.Title
	}
	if !changed("check") && c.Check {
		o.check = true
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrml",
		Short: "HTML conversion for hrml source files",
		Long: `This CLI utility runs a command listed below to convert
hrml source files into HTML.`,
		SilenceUsage: true,
	}

	var (
		configFile string
		traceLevel string
		cfg        = &config.Config{}
	)
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "``configuration file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "error", "``trace level: error, info or debug")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			c, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		level := traceLevel
		if !cmd.Flags().Changed("trace") && cfg.Trace != "" {
			level = cfg.Trace
		}
		return setTrace(level)
	}

	var opts htmlOptions
	prefixHTML := "(HTML) "
	htmlCmd := &cobra.Command{
		Use:   "html [input] [-o output]",
		Short: "HTML output generator for hrml source files",
		Long: `This command parses an hrml source file and converts it to HTML.
Text inside code blocks is automatically escaped. Code blocks that
name a language may be piped through a highlighter command, which is
parsed according to the Bourne shell's word-splitting rules. The
word {lang} in the command is replaced by the block's language.

Line endings are normalized and NUL bytes are removed before parsing.
If no input file is specified, input is read from
standard input. Similarly, if no output argument is
specified, output is written to standard output.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.merge(cmd, cfg); err != nil {
				return prefix(prefixHTML, err)
			}
			src, err := openInput(args)
			if err != nil {
				return prefix(prefixHTML, err)
			}
			defer src.Close()
			out := os.Stdout
			if len(opts.output) != 0 {
				out, err = os.Create(opts.output)
				if err != nil {
					return prefix(prefixHTML, err)
				}
			}
			defer out.Close()
			doc, err := convert.New().ParseReader(src)
			if err != nil {
				return prefix(prefixHTML, err)
			}
			ctx := context.Background()
			if opts.timeout > -1 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.timeout)
				defer cancel()
			}
			g := html.GenContext(ctx, doc)
			var checked bytes.Buffer
			g.Stdout = out
			if opts.check {
				g.Stdout = io.MultiWriter(out, &checked)
			}
			g.Stderr = os.Stderr
			g.Highlight = opts.highlight
			g.Standalone = opts.standalone
			g.Title = opts.title
			if g.Standalone && g.Title == "" {
				g.Title = "hrml document"
				if len(args) != 0 {
					g.Title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				}
			}
			if err := g.Run(); err != nil {
				return prefix(prefixHTML, err)
			}
			tracer().Infof("wrote %s of HTML for %d top-level nodes", humanize.Bytes(uint64(g.BytesWritten())), len(doc.List))
			if opts.check {
				if err := htmlcheck.Check(&checked); err != nil {
					return prefix(prefixHTML, err)
				}
			}
			return nil
		},
	}
	htmlCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if err != nil {
			return prefix(prefixHTML, err)
		}
		return nil
	})
	// pflag includes the argument type when it unquotes its usage.
	// To prevent this behavior we prefix the usage with backquotes ``.
	htmlCmd.Flags().StringVarP(&opts.output, "output", "o", "", "``name of the output file")
	htmlCmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", -1, "``timeout used to halt generator for long-running highlighters")
	// Set string version of default value to be zero-value to prevent it from being printed by FlagUsages.
	htmlCmd.Flags().Lookup("timeout").DefValue = "0"
	htmlCmd.Flags().StringVar(&opts.highlight, "highlight", "", "``command that code blocks naming a language are piped through")
	htmlCmd.Flags().BoolVar(&opts.standalone, "standalone", false, "write a complete HTML document instead of a fragment")
	htmlCmd.Flags().StringVar(&opts.title, "title", "", "``title of the standalone document")
	htmlCmd.Flags().BoolVar(&opts.check, "check", false, "verify that the generated HTML is balanced")

	prefixTree := "(TREE) "
	treeCmd := &cobra.Command{
		Use:   "tree [input]",
		Short: "Print the parsed node tree of an hrml source file",
		Long: `This command parses an hrml source file and prints the resulting
node tree. Output is colored when written to a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openInput(args)
			if err != nil {
				return prefix(prefixTree, err)
			}
			defer src.Close()
			doc, err := convert.New().ParseReader(src)
			if err != nil {
				return prefix(prefixTree, err)
			}
			pp.ColoringEnabled = isatty.IsTerminal(os.Stdout.Fd())
			if _, err := pp.Fprintln(os.Stdout, doc); err != nil {
				return prefix(prefixTree, err)
			}
			tracer().Infof("document holds %d nodes", convert.Count(doc))
			return nil
		},
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the self test and convert the bundled demo document",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			c := convert.New()
			fmt.Print(c.SelfTest())
			fmt.Printf("Input:\n%s\n\nOutput:\n%s", convert.DemoDocument, c.ParseToHTML(convert.DemoDocument))
		},
	}

	rootCmd.AddCommand(htmlCmd, treeCmd, demoCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
