// Package errs holds the sentinel errors every engine component wraps with
// fmt.Errorf("...: %w", ...), so callers can classify failures with
// errors.Is regardless of which component raised them.
package errs

import "errors"

var (
	// Configuration covers invalid options: margin=0, an out-of-range
	// parameter, an empty model list. Surfaced synchronously from a
	// session constructor or Separate call, before any side effect.
	Configuration = errors.New("configuration error")

	// Resource covers a missing input file, missing model resource, or
	// decoder-open failure. Surfaced from Open/NewSession.
	Resource = errors.New("resource error")

	// Runtime covers an inference backend failure, or a shape mismatch
	// between configured and model-reported dimensions that cannot be
	// auto-adjusted. Surfaced from Separate; partial outputs are
	// discarded.
	Runtime = errors.New("runtime error")
)
