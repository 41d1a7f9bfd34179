// Package main provides the CLI entry point for nixdoc, a tool that prints the
// /** ... */ documentation comment written in front of a Nix definition.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/nixdoc/doccomment"
	"go.jacobcolvin.com/nixdoc/log"
	"go.jacobcolvin.com/nixdoc/profile"
	"go.jacobcolvin.com/nixdoc/version"
)

var (
	// ErrInvalidJobs indicates a non-positive --jobs value.
	ErrInvalidJobs = errors.New("jobs must be at least 1")
	// ErrMissingDoc indicates that --strict was set and a position had no
	// documentation.
	ErrMissingDoc = errors.New("no documentation")
)

func main() {
	rootCmd := newRootCommand()

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type options struct {
	doc     *doccomment.Config
	log     *log.Config
	profile *profile.Config

	output string
	raw    bool
	strict bool
	jobs   int
}

func newRootCommand() *cobra.Command {
	opts := &options{
		doc:     doccomment.NewConfig(),
		log:     log.NewConfig(),
		profile: profile.NewConfig(),
	}

	rootCmd := &cobra.Command{
		Use:   "nixdoc [flags] <file:line:column> [file:line:column ...]",
		Short: "Print the doc comment of Nix definitions",
		Long: `nixdoc prints the /** ... */ documentation comment written in front of the
Nix definition at each position. Positions are 1-based, as reported by Nix
itself, and point at the value of a binding, for example the "x" in
"f = /** Doc */ x: x;".`,
		Version:       version.String(),
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts, args)
		},
	}

	rootCmd.AddCommand(newSchemaCommand())

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", string(OutputAuto),
		fmt.Sprintf("output format, one of: %s", allOutputStrings()))
	flags.BoolVar(&opts.raw, "raw", false, "print comments with their delimiters and indentation")
	flags.BoolVar(&opts.strict, "strict", false, "fail when a position has no documentation")
	flags.IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of concurrent lookups")

	opts.doc.RegisterFlags(flags)
	opts.log.RegisterFlags(rootCmd.PersistentFlags())
	opts.profile.RegisterFlags(rootCmd.PersistentFlags())

	for _, register := range []func(*cobra.Command) error{
		registerOutputCompletions,
		opts.doc.RegisterCompletions,
		opts.log.RegisterCompletions,
		opts.profile.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
		}
	}

	return rootCmd
}

func registerOutputCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(allOutputStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering output completion: %w", err)
	}

	return nil
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, args []string) error {
	logger, err := opts.log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	format, err := ParseOutput(opts.output)
	if err != nil {
		return err
	}

	if opts.jobs < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidJobs, opts.jobs)
	}

	positions := make([]doccomment.Pos, 0, len(args))

	for _, arg := range args {
		pos, err := doccomment.ParsePos(arg)
		if err != nil {
			return err
		}

		positions = append(positions, pos)
	}

	finder := opts.doc.NewFinder(doccomment.WithLogger(logger))

	var docs []doccomment.Doc

	err = opts.profile.NewProfiler(logger).Run(ctx, func(ctx context.Context) error {
		var lookupErr error

		docs, lookupErr = lookupAll(ctx, finder, positions, opts.jobs)

		return lookupErr
	})
	if err != nil {
		return err
	}

	results := newResults(positions, docs)

	out := cmd.OutOrStdout()

	err = writeResults(out, format.resolve(out), results, opts.raw)
	if err != nil {
		return err
	}

	if opts.strict {
		return checkStrict(results)
	}

	return nil
}

// lookupAll looks up every position using at most jobs goroutines. The
// returned docs are in the order of positions.
func lookupAll(ctx context.Context, finder *doccomment.Finder, positions []doccomment.Pos, jobs int) ([]doccomment.Doc, error) {
	docs := make([]doccomment.Doc, len(positions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, pos := range positions {
		g.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return fmt.Errorf("lookup %s: %w", pos, err)
			}

			docs[i] = finder.Lookup(pos)

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func checkStrict(results []result) error {
	var errs []error

	for _, r := range results {
		if !r.Found {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingDoc, r.Position))
		}
	}

	return errors.Join(errs...)
}
