// Package main is the entry point for the CampusGPT service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/campusgpt/cmd/campusgpt/app"
)

func main() {
	app.NewApp().Run()
}
