// Package config defines run settings for the refresh runner and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds the working repository location, the update pipeline
// and environment provisioner command lines, and the fixed commit identity.
package config
