package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/podhmo/symerl"
	"github.com/podhmo/symerl/rules"
)

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		log.Fatalf("!! %+v", err)
	}
}

type options struct {
	verbose bool
}

func newRootCmd(logOutput *os.File) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "symerl",
		Short:         "Inspect the call models of the analyzer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")

	logger := func() *slog.Logger { return newLogger(logOutput, opts.verbose) }
	root.AddCommand(newModelsCmd(logger), newRulesCmd())
	return root
}

// newLogger writes text to a terminal and JSON anywhere else.
func newLogger(f *os.File, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(f, handlerOpts))
	}
	var w io.Writer = io.Discard
	if f != nil {
		w = f
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts))
}

func newModelsCmd(logger func() *slog.Logger) *cobra.Command {
	var (
		rulesPath string
		depth     int
	)
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the registered models in lookup order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := symerl.New(symerl.Config{
				Logger:         logger(),
				RulesPath:      rulesPath,
				MaxUnfoldDepth: depth,
			})
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range a.Registry().Entries() {
				fmt.Fprintf(w, "%s\t%s\n", e.Selector, e.Origin)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&rulesPath, "rules", "", "rules file (JSON or YAML)")
	cmd.Flags().IntVar(&depth, "depth", symerl.DefaultMaxUnfoldDepth, "maximum list unfolding depth")
	return cmd
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Work with rules files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check FILE",
		Short: "Parse a rules file and report its selectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := rules.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range rs {
				if r.Raise != 0 {
					fmt.Fprintf(out, "%s raises %s\n", r.Selector, r.Raise)
					continue
				}
				fmt.Fprintf(out, "%s\n", r.Selector)
			}
			fmt.Fprintf(out, "%s: %d rules ok\n", args[0], len(rs))
			return nil
		},
	})
	return cmd
}
