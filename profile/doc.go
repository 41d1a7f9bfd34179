// Package profile adds runtime profiling to the nixdoc CLI.
//
// Each profile [Kind] is enabled by giving it an output path, usually via the
// flags added by [Config.RegisterFlags]. Profiling a large batch of lookups
// shows where regular expression matching and prefix reading spend time:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	err := cfg.NewProfiler(logger).Run(ctx, func(ctx context.Context) error {
//	    return lookupAll(ctx, positions)
//	})
//
// Users can then enable profiling via flags like --cpu-profile=cpu.prof.
package profile
