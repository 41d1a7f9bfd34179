package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
)

// Kind names a runtime profile.
type Kind string

const (
	// KindCPU samples CPU usage for the whole run.
	KindCPU Kind = "cpu"
	// KindHeap snapshots live heap allocations at the end of the run.
	KindHeap Kind = "heap"
	// KindAllocs snapshots all past allocations at the end of the run.
	KindAllocs Kind = "allocs"
	// KindGoroutine snapshots goroutine stacks, useful with concurrent lookups.
	KindGoroutine Kind = "goroutine"
	// KindBlock reports where goroutines blocked.
	KindBlock Kind = "block"
	// KindMutex reports mutex contention.
	KindMutex Kind = "mutex"
)

// Kinds returns every supported [Kind], CPU first.
func Kinds() []Kind {
	return []Kind{KindCPU, KindHeap, KindAllocs, KindGoroutine, KindBlock, KindMutex}
}

// Profiler controls the lifecycle of a profiling session.
//
// Call [Profiler.Start] to begin profiling and [Profiler.Stop] to write all
// enabled profiles, or wrap a function with [Profiler.Run].
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	paths   map[Kind]string
	logger  *slog.Logger
	cpuFile *os.File

	memRate       int
	blockRate     int
	mutexFraction int
}

// Enabled reports whether any profile will be written.
func (p *Profiler) Enabled() bool {
	return len(p.paths) > 0
}

// Start applies the sampling rates and starts CPU profiling if enabled.
func (p *Profiler) Start() error {
	if !p.Enabled() {
		return nil
	}

	if p.memRate > 0 {
		runtime.MemProfileRate = p.memRate
	}

	runtime.SetBlockProfileRate(p.blockRate)
	runtime.SetMutexProfileFraction(p.mutexFraction)

	path, ok := p.paths[KindCPU]
	if !ok {
		return nil
	}

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", KindCPU, err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("start %s profile: %w", KindCPU, err), f.Close())
	}

	p.cpuFile = f

	return nil
}

// Stop stops CPU profiling and writes every enabled snapshot profile. All
// profiles are attempted; failures are joined.
func (p *Profiler) Stop() error {
	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close %s profile: %w", KindCPU, err))
		} else {
			p.logWritten(KindCPU)
		}

		p.cpuFile = nil
	}

	for _, kind := range Kinds()[1:] {
		if _, ok := p.paths[kind]; !ok {
			continue
		}

		err := p.writeSnapshot(kind)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Run profiles fn, writing all enabled profiles after it returns.
func (p *Profiler) Run(ctx context.Context, fn func(context.Context) error) error {
	err := p.Start()
	if err != nil {
		return err
	}

	return errors.Join(fn(ctx), p.Stop())
}

func (p *Profiler) writeSnapshot(kind Kind) error {
	prof := pprof.Lookup(string(kind))
	if prof == nil {
		return fmt.Errorf("unknown profile: %s", kind)
	}

	f, err := os.Create(p.paths[kind]) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", kind, err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write %s profile: %w", kind, err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close %s profile: %w", kind, err)
	}

	p.logWritten(kind)

	return nil
}

func (p *Profiler) logWritten(kind Kind) {
	p.logger.Debug("wrote profile",
		slog.String("kind", string(kind)),
		slog.String("path", p.paths[kind]),
	)
}
