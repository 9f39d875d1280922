package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gridmet/ncqc/pkg/cli"
)

func main() {
	if err := cli.New().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
