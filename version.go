package arium

// Version is the library version. Overridable at build time:
//
//	go build -ldflags "-X github.com/ariumhq/arium.Version=v1.2.3"
var Version = "0.1.0-dev"
