// Package main hosts the skymaya CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves a data root from --path (or
// paths.default_data_dir, then the working directory), looks up actor
// assets, and drives ck-cmd conversions one job at a time or across a whole
// data root. It centralizes configuration loading, logger setup, and history
// wiring in commandContext so subcommands only describe their flags and
// output.
package main
