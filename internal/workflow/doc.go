// Package workflow composes project detection, asset lookup, and the ck-cmd
// runner into batch operations over a data root.
//
// A Session is created per CLI invocation. It owns the run ID, the runner
// and its invocation-log policy, the lazily detected project context, and the
// batch lock. ConvertDataRoot walks every actor of the selected DLC groups
// strictly in sequence; ExtractActor copies one actor's files into a fresh
// data root. Every ck-cmd invocation made through a Session is recorded in
// the history store when one is attached.
package workflow
