package main

import (
	"os"
	_ "time/tzdata"

	"github.com/itassets/identity-sync/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
