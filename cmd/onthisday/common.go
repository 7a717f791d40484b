package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tartampluch/go-onthisday/internal/config"
	"github.com/tartampluch/go-onthisday/internal/engine"
	"golang.org/x/term"
)

// settings loads and validates the settings file named by --config,
// falling back to the per-user default location.
func (a *cli) settings() (*config.Settings, error) {
	path := a.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	s, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// clock returns the real clock, or a fixed one at noon of --date.
func (a *cli) clock() (engine.Clock, error) {
	if a.date == "" {
		return engine.RealClock{}, nil
	}
	d, err := engine.ParseCalendarDate(a.date)
	if err != nil {
		return nil, err
	}
	return engine.FixedClock{Time: time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.Local)}, nil
}

// loader builds the dataset loader for the current invocation.
func (a *cli) loader() (*engine.Loader, error) {
	clk, err := a.clock()
	if err != nil {
		return nil, err
	}
	return &engine.Loader{Clock: clk, Fetcher: engine.NewHTTPFetcher()}, nil
}

// sourceConfig maps settings to the loader's source, resolving the password.
func sourceConfig(s *config.Settings) engine.SourceConfig {
	src := engine.SourceConfig{
		Mode:      s.Source.Mode,
		LocalPath: s.Source.Path,
		URL:       s.Source.URL,
		User:      s.Source.Username,
	}
	if src.Mode == config.SourceModeWeb {
		src.Password = config.SourcePassword(src.User)
	}
	return src
}

// openOutput returns stdout when path is empty, else a created file.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", config.ErrOutputFile, err)
	}
	return f, f.Close, nil
}

// prompter reads interactive answers. Secrets are read without echo on a terminal.
type prompter struct {
	in  *os.File
	out io.Writer
	rd  *bufio.Reader
}

func newPrompter(in *os.File, out io.Writer) *prompter {
	return &prompter{in: in, out: out, rd: bufio.NewReader(in)}
}

func (p *prompter) line(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)
	s, err := p.rd.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("%s: %w", config.ErrPasswordRead, err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(prompt string) (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.line(prompt)
	}
	_, _ = fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrPasswordRead, err)
	}
	return string(b), nil
}

// newPassword asks twice and requires both answers to match.
func (p *prompter) newPassword() (string, error) {
	pw, err := p.secret(config.PromptPassword)
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", errors.New(config.ErrPasswordEmpty)
	}
	confirm, err := p.secret(config.PromptConfirm)
	if err != nil {
		return "", err
	}
	if pw != confirm {
		return "", errors.New(config.ErrPasswordMatch)
	}
	return pw, nil
}
