package main

import (
	"github.com/robotalks/velplan/pkg/cli/sh"

	_ "github.com/robotalks/velplan/pkg/cli/cmds/plan"
)

//go-build: CGO_ENABLED=0

func init() {
	sh.SetupFlags()
}

func main() {
	sh.Main()
}
