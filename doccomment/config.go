package doccomment

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for doc comment lookup configuration, allowing
// callers to customize flag names while keeping sensible defaults via
// [NewConfig].
type Flags struct {
	Simple       string
	TimesApplied string
	Root         string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for doc comment lookup.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewFinder] to create a [Finder].
type Config struct {
	Flags Flags

	// Root, when set, is the directory relative source paths are resolved
	// against. Absolute paths must then lie inside Root.
	Root string

	Simple       bool
	TimesApplied bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Simple:       "simple",
		TimesApplied: "times-applied",
		Root:         "root",
	}

	return f.NewConfig()
}

// RegisterFlags adds doc comment lookup flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.Simple, c.Flags.Simple, false,
		"only accept doc comments followed by whitespace and line comments")
	flags.BoolVar(&c.TimesApplied, c.Flags.TimesApplied, false,
		"report how many curried arguments separate the comment from the position")
	flags.StringVar(&c.Root, c.Flags.Root, "",
		"resolve source paths relative to this directory; absolute paths must be inside it")
}

// RegisterCompletions registers shell completions for doc comment lookup
// flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Root,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Root, err)
	}

	return nil
}

// NewFinder creates a [Finder] using this [Config]. Additional options are
// applied after the configured ones.
func (c *Config) NewFinder(opts ...Option) *Finder {
	base := []Option{
		WithSimple(c.Simple),
		WithTimesApplied(c.TimesApplied),
	}

	if c.Root != "" {
		base = append(base, WithOpener(DirOpener{Root: c.Root}))
	}

	return NewFinder(append(base, opts...)...)
}
