// Package version reports which lightlid build is running.
//
// Version, Commit and BuildTime are set with -ldflags -X at build time. A plain
// "go install" leaves them unset, so Info falls back to the module version and
// VCS settings recorded by the Go toolchain.
package version
