package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sparkcalc/internal/buildinfo"
	"sparkcalc/internal/scenario"
)

// errFailed is returned when at least one scenario did not pass; the
// details have already been printed.
var errFailed = errors.New("scenarios failed")

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "calctrace",
		Short:         "Replay calculator key sequences",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newKeysCommand(), newRunCommand())
	return cmd
}

func newKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <token>...",
		Short: "Print the trace for a key sequence",
		Long: `Press each token on a fresh engine and print one line per key:
key, clear label, pending operator (_ for none) and display.

Tokens: 0-9 . + - * / = % neg clear

Example:
  calctrace keys clear 6 + 3 = =`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := scenario.ParseKeys(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), scenario.Replay(keys).String())
			return nil
		},
	}
}

func newRunCommand() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "run <file.yaml|dir>...",
		Short: "Run scenario files and report failures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := loadAll(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, s := range scenarios {
				tr, err := scenario.Run(s)
				if err == nil {
					err = scenario.Check(s, tr)
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s\n%s\n", s.Name, indent(err.Error()))
					continue
				}
				fmt.Fprintf(out, "ok   %s\n", s.Name)
				if verbose {
					fmt.Fprint(out, indent(tr.String()))
				}
			}
			fmt.Fprintf(out, "%d passed, %d failed\n", len(scenarios)-failed, failed)
			if failed > 0 {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the trace of passing scenarios")
	return cmd
}

func loadAll(args []string) ([]*scenario.Scenario, error) {
	var out []*scenario.Scenario
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			ss, err := scenario.LoadDir(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, ss...)
			continue
		}
		s, err := scenario.Load(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
