package doccomment

import (
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors returned by [Finder.Find] and [ParsePos].
var (
	ErrInvalidPosition   = errors.New("invalid position")
	ErrUnsupportedOrigin = errors.New("unsupported position origin")
	ErrOpenSource        = errors.New("open source")
	ErrOutsideRoot       = errors.New("path outside root")
	ErrReadSource        = errors.New("read source")
	ErrNoMatch           = errors.New("no doc comment")
)

var (
	defaultFinder = NewFinder()
	simpleFinder  = NewFinder(WithSimple(true))
)

// LookupDoc returns the documentation for the definition at pos, or
// [EmptyDoc] if there is none or it cannot be determined. It never fails.
func LookupDoc(pos Pos) Doc {
	return defaultFinder.Lookup(pos)
}

// LookupDocSimple is like [LookupDoc] but only accepts a doc comment that is
// separated from pos by whitespace and line comments.
func LookupDocSimple(pos Pos) Doc {
	return simpleFinder.Lookup(pos)
}

// Finder looks up doc comments in source files.
// A Finder is safe for concurrent use; lookups share no state.
//
// Create instances with [NewFinder].
type Finder struct {
	opener       Opener
	matcher      *Matcher
	logger       *slog.Logger
	timesApplied bool
}

// Option configures a [Finder].
type Option func(*Finder)

// NewFinder creates a [Finder] with the given options. By default it reads
// files from the operating system, accepts bindings and lambdas after the
// comment, and does not log.
func NewFinder(opts ...Option) *Finder {
	f := &Finder{
		opener:  OSOpener{},
		matcher: fullMatcher,
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithOpener sets the [Opener] used to read source files.
func WithOpener(o Opener) Option {
	return func(f *Finder) {
		if o != nil {
			f.opener = o
		}
	}
}

// WithSimple restricts matching to comments separated from the definition by
// whitespace and line comments only.
func WithSimple(simple bool) Option {
	return func(f *Finder) {
		if simple {
			f.matcher = simpleMatcher
		} else {
			f.matcher = fullMatcher
		}
	}
}

// WithTimesApplied populates [Doc.TimesApplied] with the number of curried
// lambda parameters found between the comment and the definition.
func WithTimesApplied(enabled bool) Option {
	return func(f *Finder) {
		f.timesApplied = enabled
	}
}

// WithLogger sets the logger used to report lookup failures at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Lookup returns the documentation for the definition at pos, or [EmptyDoc].
// Errors and panics are logged and never reach the caller.
func (f *Finder) Lookup(pos Pos) (doc Doc) {
	defer func() {
		r := recover()
		if r != nil {
			f.logger.Debug("doc comment lookup panicked",
				slog.String("pos", pos.String()),
				slog.Any("panic", r),
			)

			doc = EmptyDoc
		}
	}()

	found, err := f.Find(pos)
	if err != nil {
		f.logger.Debug("no doc comment",
			slog.String("pos", pos.String()),
			slog.Any("err", err),
		)

		return EmptyDoc
	}

	return found
}

// Find returns the documentation for the definition at pos. On failure it
// returns [EmptyDoc] and an error wrapping one of [ErrUnsupportedOrigin],
// [ErrOpenSource], [ErrReadSource] or [ErrNoMatch]. A comment with no text,
// such as "/** */", is still found: its [Doc] keeps the raw comment and has
// an empty [Doc.Comment].
func (f *Finder) Find(pos Pos) (Doc, error) {
	prefix, err := f.readPrefix(pos)
	if err != nil {
		return EmptyDoc, err
	}

	match, ok := f.matcher.Match(prefix)
	if !ok {
		return EmptyDoc, fmt.Errorf("%w: %s", ErrNoMatch, pos)
	}

	timesApplied := 0
	if f.timesApplied {
		timesApplied = match.Lambdas
	}

	doc := NewDoc(match.Raw, timesApplied)

	f.logger.Debug("found doc comment",
		slog.String("pos", pos.String()),
		slog.String("attr", match.Attr),
		slog.Int("lambdas", match.Lambdas),
	)

	return doc, nil
}

func (f *Finder) readPrefix(pos Pos) (string, error) {
	src, ok := pos.Origin.(SourcePath)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOrigin, originName(pos.Origin))
	}

	rc, err := f.opener.Open(src.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOpenSource, err)
	}

	prefix, err := ReadPrefix(rc, pos.Line, pos.Column)

	closeErr := rc.Close()
	if err != nil {
		return "", err
	}

	if closeErr != nil {
		return "", fmt.Errorf("%w: %w", ErrReadSource, closeErr)
	}

	return prefix, nil
}
