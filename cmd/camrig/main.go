// Package main is the camrig CLI.
package main

import (
	"log"
	"os"

	"github.com/viamrobotics/camrig/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
