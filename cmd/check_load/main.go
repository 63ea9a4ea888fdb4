package main

import (
	"context"
	"os"

	"github.com/consol-monitoring/check_system/pkg/checkload"
)

func main() {
	os.Exit(checkload.Check(context.Background(), os.Stdout, os.Args[1:]))
}
