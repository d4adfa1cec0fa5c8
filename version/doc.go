// Package version reports the build identity printed by `textpipe --version`.
//
// Version, commit and build time are set at compile time via -ldflags and
// fall back to the VCS stamp embedded by the Go toolchain:
//
//	go build -ldflags "-X github.com/kbukum/textstream/version.Version=1.0.0" ./cmd/textpipe
package version
