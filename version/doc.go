// Package version reports the build identity of the linepar binary.
//
// Version, commit and build time are set at compile time via -ldflags and
// fall back to the VCS stamps the Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/linepar/version.Version=1.2.0" ./cmd/linepar
package version
