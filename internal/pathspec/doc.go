// Package pathspec resolves multi-segment directory patterns against the real
// filesystem.
//
// A Pattern is an ordered list of Segments mirroring on-disk nesting depth.
// Each Segment is a literal name, a first-entry wildcard, or an ordered list
// of alternative names. Resolve performs a depth-first search in which only
// Alternatives segments backtrack: a Literal or Wildcard choice is final, so a
// later failure under a wildcard's first entry fails the whole pattern even
// when a sibling entry would have matched. Callers rely on that asymmetry.
//
// FirstFile is the lighter primitive used for keyword lookups; it walks an
// entire subtree instead of descending a fixed number of levels.
//
// Lookup misses surface as ErrDirectoryNotFound or ErrFileNotFound so callers
// can treat them as "optional asset absent" without swallowing real I/O
// failures.
package pathspec
