// Package model defines the data structures shared across the metadata modifier.
package model

// Path represents a file system path.
type Path string

// OutputMode represents how a run behaves with regards to overwriting files.
type OutputMode int

const (
	// ModeDryRun prints which files would be modified without changing them.
	ModeDryRun OutputMode = iota
	// ModeDryRunVerbose additionally prints the full diff of intended changes.
	ModeDryRunVerbose
	// ModeWrite rewrites modified files in place.
	ModeWrite
)

// Format selects how a string slice literal is serialized back into code.
type Format int

const (
	// FormatOneLine renders the slice inline: []string{"a", "b"}.
	FormatOneLine Format = iota
	// FormatMultiLine renders one element per line. Used for contact lists.
	FormatMultiLine
)

// PathFilter restricts which test bundle trees are walked, based on the
// path to the file rather than its contents.
type PathFilter struct {
	SkipPublic  bool
	SkipPrivate bool
	SkipLocal   bool
	SkipRemote  bool
	Packages    []string
}
