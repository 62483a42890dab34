// Package version reports build metadata of the running binary: git
// commit, branch, build time and toolchain.
package version
