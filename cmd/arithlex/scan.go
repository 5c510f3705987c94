package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/arith-lexer/pkg/lexer"
	"github.com/lemonberrylabs/arith-lexer/pkg/token"
)

// scanResult is the structured output of one scanned input.
type scanResult struct {
	Input  string          `json:"input" yaml:"input"`
	Tokens []token.Token   `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Error  *lexer.LexError `json:"error,omitempty" yaml:"error,omitempty"`

	trace []lexer.Transition
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan EXPR...",
		Short: "Tokenize one or more expressions",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runScan,
	}
	cmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
	cmd.Flags().Bool("trace", false, "Print every state transition (text output only)")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	trace, _ := cmd.Flags().GetBool("trace")

	results := make([]scanResult, len(args))
	failed := false
	for i, input := range args {
		results[i] = scanOne(input, trace)
		if results[i].Error != nil {
			failed = true
		}
	}

	out := cmd.OutOrStdout()
	var err error
	switch format {
	case "text":
		writeText(out, results, len(args) > 1)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		err = enc.Encode(results)
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if failed {
		return errFailed
	}
	return nil
}

func scanOne(input string, trace bool) scanResult {
	res := scanResult{Input: input}

	if trace {
		res.trace, _ = lexer.Trace(input)
	}
	tokens, err := lexer.Scan(input)
	if err != nil {
		res.Error = err.(*lexer.LexError)
		return res
	}
	res.Tokens = tokens
	return res
}

func writeText(w io.Writer, results []scanResult, prefix bool) {
	for _, r := range results {
		if prefix {
			fmt.Fprintf(w, "%q: ", r.Input)
		}
		if r.Error != nil {
			fmt.Fprintln(w, r.Error)
		} else {
			fmt.Fprintln(w, token.Format(r.Tokens))
		}
		for _, st := range r.trace {
			fmt.Fprintf(w, "  %3d %-4q %s -> %s\n", st.Pos, st.Char, st.From, st.To)
		}
	}
}
