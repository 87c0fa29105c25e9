// Package version holds the uvstart build version.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/NielsdaWheelz/uvstart/internal/version.Version=v1.2.3"
var Version = "dev"
