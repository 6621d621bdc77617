// Package gitrepo is the version-control interface of the runner: stage all
// working-tree changes, commit them with a fixed identity, and push the
// branch to its remote.
//
// The go-git implementation operates on an existing working tree, so the
// checkout itself stays with the host that scheduled the run.
package gitrepo
