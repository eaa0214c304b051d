// Package utils holds small one-off helpers that do not warrant a package
// of their own.
package utils

// Build-time identifiers, overridden via -ldflags at release time.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
