package main

import (
	"fmt"
	"os"

	"bakery-preorder/config"
	"bakery-preorder/order-svc/internal/cli"
)

func main() {
	config.LoadEnv()
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bakeryctl:", err)
		os.Exit(1)
	}
}
