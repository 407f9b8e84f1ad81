// Package preflight provides readiness checks for the filesystem paths
// reel writes to.
//
// These checks run in two contexts:
//   - The engine verifies the output directory before starting a run so a
//     doomed conversion fails up front instead of at the final write.
//   - The CLI "reel backends" command displays them next to driver status.
//
// Unconfigured paths are skipped.
package preflight
