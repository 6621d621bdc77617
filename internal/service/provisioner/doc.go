// Package provisioner materializes the declared execution environment by
// invoking the configured environment manager with the environment
// specification file and runtime version.
//
// The provisioner itself is an opaque external collaborator; only its
// process contract (argv, exit code) is handled here.
package provisioner
