// Package suite loads and runs YAML conformance suites for the lexer.
//
// A suite file looks like:
//
//	name: basics
//	cases:
//	  - input: "9+0+8"
//	    tokens: ["9", "+", "0", "+", "8"]
//	  - name: leading zero
//	    input: "01+2"
//	    error: NumberError
//	    message: There cannot be any digit after zero
//
// A case expects either tokens or an error kind, never both.
package suite

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/arith-lexer/pkg/lexer"
	"github.com/lemonberrylabs/arith-lexer/pkg/token"
)

// Suite is a named list of conformance cases.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// Case is one input together with its expected outcome.
type Case struct {
	Name    string   `yaml:"name,omitempty"`
	Input   string   `yaml:"input"`
	Tokens  []string `yaml:"tokens,omitempty"`
	Error   string   `yaml:"error,omitempty"`
	Message string   `yaml:"message,omitempty"`

	expected []token.Token
}

// Label returns the case name, or the quoted input when the case is unnamed.
func (c Case) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%q", c.Input)
}

// Result is the outcome of running one case.
type Result struct {
	Case   Case
	Passed bool
	Reason string // why the case failed
}

// Report collects the results of a suite run.
type Report struct {
	Suite   string
	Results []Result
}

// Failed returns the results that did not pass.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// OK reports whether every case passed.
func (r Report) OK() bool {
	return len(r.Failed()) == 0
}

// Load reads and parses a suite file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Parse decodes a suite from YAML and validates every case.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid suite YAML: %w", err)
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("suite has no cases")
	}

	for i := range s.Cases {
		c := &s.Cases[i]
		if c.Error != "" && len(c.Tokens) > 0 {
			return nil, fmt.Errorf("case %d (%s): expects both tokens and an error", i, c.Label())
		}
		if c.Error == "" && len(c.Tokens) == 0 {
			return nil, fmt.Errorf("case %d (%s): expects neither tokens nor an error", i, c.Label())
		}
		switch lexer.ErrorKind(c.Error) {
		case "", lexer.NumberError, lexer.ExpressionError:
		default:
			return nil, fmt.Errorf("case %d (%s): unknown error kind %q", i, c.Label(), c.Error)
		}
		for _, raw := range c.Tokens {
			tok, ok := token.Parse(raw)
			if !ok {
				return nil, fmt.Errorf("case %d (%s): invalid token %q", i, c.Label(), raw)
			}
			c.expected = append(c.expected, tok)
		}
	}
	return &s, nil
}

// Run scans every case of s and compares the outcome with the expectation.
func Run(s *Suite) Report {
	report := Report{Suite: s.Name, Results: make([]Result, len(s.Cases))}
	for i, c := range s.Cases {
		report.Results[i] = runCase(c)
	}
	return report
}

func runCase(c Case) Result {
	tokens, err := lexer.Scan(c.Input)

	if c.Error != "" {
		if err == nil {
			return fail(c, "expected %s, got tokens %s", c.Error, token.Format(tokens))
		}
		kind, _ := lexer.KindOf(err)
		if string(kind) != c.Error {
			return fail(c, "expected %s, got %v", c.Error, err)
		}
		if c.Message != "" {
			if le := err.(*lexer.LexError); !strings.EqualFold(le.Message, c.Message) {
				return fail(c, "expected message %q, got %q", c.Message, le.Message)
			}
		}
		return Result{Case: c, Passed: true}
	}

	if err != nil {
		return fail(c, "expected %s, got %v", token.Format(c.expected), err)
	}
	if !equalTokens(tokens, c.expected) {
		return fail(c, "expected %s, got %s", token.Format(c.expected), token.Format(tokens))
	}
	return Result{Case: c, Passed: true}
}

func fail(c Case, format string, args ...interface{}) Result {
	return Result{Case: c, Reason: fmt.Sprintf(format, args...)}
}

func equalTokens(a, b []token.Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
