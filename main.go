package main

import (
	"os"

	"github.com/ClinicOps/clinicops/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
