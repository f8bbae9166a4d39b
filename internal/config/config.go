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

// Package config loads default settings for the hrml command from a
// TOML or YAML file. The format is chosen by the file's extension.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config mirrors the flags of the html command.
type Config struct {
	Output     string `toml:"output" yaml:"output"`
	Timeout    string `toml:"timeout" yaml:"timeout"`
	Highlight  string `toml:"highlight" yaml:"highlight"`
	Standalone bool   `toml:"standalone" yaml:"standalone"`
	Title      string `toml:"title" yaml:"title"`
	Check      bool   `toml:"check" yaml:"check"`
	Trace      string `toml:"trace" yaml:"trace"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open config")
	}
	var c Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(b, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &c)
	default:
		return nil, errors.Errorf("could not parse config: unknown format %q", ext)
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return nil, err
	}
	return &c, nil
}

// TimeoutDuration returns the configured timeout, or -1 if none is set.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return -1, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout %q", c.Timeout)
	}
	return d, nil
}
