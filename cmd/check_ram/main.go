package main

import (
	"context"
	"os"

	"github.com/consol-monitoring/check_system/pkg/checkram"
)

func main() {
	os.Exit(checkram.Check(context.Background(), os.Stdout, os.Args[1:]))
}
