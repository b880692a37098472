package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/tilapp/internal/tilctl"
)

func main() {
	if err := tilctl.RootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
