// Package preflight provides readiness checks for the filesystem paths and
// the ck-cmd executable that skymaya depends on.
//
// These checks run in two contexts:
//   - Batch conversion calls RunAll before the first job. If any check
//     fails, the batch halts before spawning a converter that cannot succeed.
//   - The CLI "skymaya doctor" command renders every Result as a table.
package preflight
