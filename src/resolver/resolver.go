// Package resolver supplies values the input files and caches could not,
// e.g. a payer's ISIN or address. The ingestion pipeline receives a Resolver
// so the core stays free of any I/O concern.
package resolver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Resolver produces a value for a named field, typically by asking the user.
type Resolver interface {
	Resolve(field, prompt string) (string, error)
}

// Console prompts on the terminal.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole builds a resolver reading stdin and writing stdout.
func NewConsole() *Console {
	return &Console{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// NewConsoleWith builds a console resolver over explicit streams.
func NewConsoleWith(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) Resolve(field, prompt string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("resolver: reading %s: %w", field, err)
	}
	return strings.TrimSpace(line), nil
}

// Static answers from a fixed field -> value map; unknown fields error.
// Meant for tests and non-interactive runs.
type Static map[string]string

func (s Static) Resolve(field, prompt string) (string, error) {
	if v, ok := s[field]; ok {
		return v, nil
	}
	return "", fmt.Errorf("resolver: no static answer for %s", field)
}

// FailFast refuses every request, turning any unresolved value into an
// immediate error.
type FailFast struct{}

func (FailFast) Resolve(field, prompt string) (string, error) {
	return "", fmt.Errorf("resolver: value for %s unresolved (%s)", field, prompt)
}
