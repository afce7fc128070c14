package driver

import (
	"fmt"

	"nuir/internal/irgen"
)

// Options control one driver run.
type Options struct {
	// MaxDepth is passed to irgen.Options; <= 0 disables the limit.
	MaxDepth int
	// MaxDiagnostics caps each file's bag; <= 0 is unlimited.
	MaxDiagnostics int
	// Validate runs ir.Validate on error-free output.
	Validate bool
	// Jobs limits parallel files in GenerateDir; <= 0 uses GOMAXPROCS.
	Jobs int
	// Cache, if set, stores generation results by content hash.
	Cache    *DiskCache
	Observer PhaseObserver
}

// DefaultOptions mirrors the defaults of nuir.toml.
func DefaultOptions() Options {
	return Options{MaxDepth: irgen.DefaultMaxDepth, Validate: true}
}

// fingerprint lists every setting that changes the generated output.
func (o Options) fingerprint() string {
	return fmt.Sprintf("schema=%d max_depth=%d max_diag=%d validate=%t",
		cacheSchema, o.MaxDepth, o.MaxDiagnostics, o.Validate)
}
