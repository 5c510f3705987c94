package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/arith-lexer/pkg/suite"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check SUITE.yaml...",
		Short: "Run YAML conformance suites against the lexer",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().BoolP("verbose", "v", false, "Print passing cases too")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	out := cmd.OutOrStdout()

	failed := 0
	for _, path := range args {
		s, err := suite.Load(path)
		if err != nil {
			return err
		}

		report := suite.Run(s)
		for _, res := range report.Results {
			switch {
			case !res.Passed:
				fmt.Fprintf(out, "FAIL %s: %s\n", res.Case.Label(), res.Reason)
			case verbose:
				fmt.Fprintf(out, "ok   %s\n", res.Case.Label())
			}
		}
		n := len(report.Failed())
		fmt.Fprintf(out, "%s: %d passed, %d failed\n", report.Suite, len(report.Results)-n, n)
		failed += n
	}

	if failed > 0 {
		return errFailed
	}
	return nil
}
