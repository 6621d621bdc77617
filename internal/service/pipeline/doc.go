// Package pipeline invokes the external update pipeline with the access
// token passed as a single named parameter (token=<value>).
//
// The pipeline's side effects on the working tree are its only contract; a
// non-zero exit aborts the run. Tokens are masked in every logged command line.
package pipeline
