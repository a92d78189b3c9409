package main

import (
	"fmt"
	"os"

	"github.com/downfa11-org/boundlog/pkg/cli"
	"github.com/downfa11-org/boundlog/util"
)

func main() {
	defer util.Sync()

	if err := cli.NewRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "logctl: %v\n", err)
		util.Sync()
		os.Exit(1)
	}
}
