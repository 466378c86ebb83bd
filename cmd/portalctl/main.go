package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCmd(cli.FromConfig()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
