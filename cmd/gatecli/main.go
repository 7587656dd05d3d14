package main

import (
	"github.com/robotalks/gate.go/pkg/access"
	"github.com/robotalks/gate.go/pkg/cli/sh"
)

//go-build: CGO_ENABLED=0

func init() {
	access.SetupFlags()
}

func main() {
	sh.Main()
}
