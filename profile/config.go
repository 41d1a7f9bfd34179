package profile

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	CPU       string
	Heap      string
	Allocs    string
	Goroutine string
	Block     string
	Mutex     string

	MemRate       string
	BlockRate     string
	MutexFraction string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
		Paths: map[Kind]string{},
	}
}

// Config holds profiling configuration: an output path per [Kind] and the
// runtime sampling rates. A Config without paths has all profiles disabled.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler].
type Config struct {
	// Paths maps each enabled profile to its output file.
	Paths map[Kind]string
	Flags Flags

	MemRate       int
	BlockRate     int
	MutexFraction int
}

// NewConfig creates a new [Config] with default flag names and all profiles
// disabled.
func NewConfig() *Config {
	f := Flags{
		CPU:           "cpu-profile",
		Heap:          "heap-profile",
		Allocs:        "allocs-profile",
		Goroutine:     "goroutine-profile",
		Block:         "block-profile",
		Mutex:         "mutex-profile",
		MemRate:       "mem-profile-rate",
		BlockRate:     "block-profile-rate",
		MutexFraction: "mutex-profile-fraction",
	}

	return f.NewConfig()
}

func (f Flags) pathFlags() map[Kind]string {
	return map[Kind]string{
		KindCPU:       f.CPU,
		KindHeap:      f.Heap,
		KindAllocs:    f.Allocs,
		KindGoroutine: f.Goroutine,
		KindBlock:     f.Block,
		KindMutex:     f.Mutex,
	}
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	if c.Paths == nil {
		c.Paths = map[Kind]string{}
	}

	for _, kind := range Kinds() {
		flags.Var(&pathValue{paths: c.Paths, kind: kind}, c.Flags.pathFlags()[kind],
			fmt.Sprintf("write %s profile to file", kind))
	}

	flags.IntVar(&c.MemRate, c.Flags.MemRate, 512*1024, "memory profile rate (bytes per sample)")
	flags.IntVar(&c.BlockRate, c.Flags.BlockRate, 1, "block profile rate (nanoseconds)")
	flags.IntVar(&c.MutexFraction, c.Flags.MutexFraction, 1, "mutex profile fraction (1/N sampling)")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
// Rate flags disable file completion; path flags keep the default.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := cobra.NoFileCompletions

	for _, name := range []string{c.Flags.MemRate, c.Flags.BlockRate, c.Flags.MutexFraction} {
		err := cmd.RegisterFlagCompletionFunc(name, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return nil
}

// NewProfiler creates a new [Profiler] using this [Config]. Written profiles
// are reported to logger at debug level; a nil logger discards them.
func (c *Config) NewProfiler(logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	paths := make(map[Kind]string, len(c.Paths))
	for k, v := range c.Paths {
		if v != "" {
			paths[k] = v
		}
	}

	return &Profiler{
		paths:         paths,
		memRate:       c.MemRate,
		blockRate:     c.BlockRate,
		mutexFraction: c.MutexFraction,
		logger:        logger,
	}
}

// pathValue binds a path flag to one entry of [Config.Paths].
type pathValue struct {
	paths map[Kind]string
	kind  Kind
}

func (v *pathValue) String() string {
	if v.paths == nil {
		return ""
	}

	return v.paths[v.kind]
}

func (v *pathValue) Set(s string) error {
	v.paths[v.kind] = s

	return nil
}

func (v *pathValue) Type() string {
	return "path"
}
