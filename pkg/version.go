package rmpdb

// Version and Build are set by the build process via ldflags.
var (
	Version = "v0.1.0"
	Build   = "n/a"
)
