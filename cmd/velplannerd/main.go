package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/velplan/pkg/framework"
	"github.com/robotalks/velplan/pkg/node"
)

func init() {
	node.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	n, err := node.New(*node.MustNewConfig())
	if err != nil {
		glog.Exitln(err)
	}
	if err := fx.NewRunner().HandleSignals().Go(n).Wait(); err != nil {
		glog.Exitln(err)
	}
}
