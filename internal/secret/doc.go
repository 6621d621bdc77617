// Package secret holds opaque credentials for the lifetime of a run.
//
// A Secret is write-only: String, GoString and the marshal hooks all return
// a redaction placeholder, so tokens cannot leak through logs, %v formatting
// or serialized settings. The raw value is only reachable through Value at
// the point of use.
package secret
