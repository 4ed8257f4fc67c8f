package main

import (
	"os"

	"personal-health-record/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	// `migrate` applies pending migrations and exits
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := bootstrap.Migrate(); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		return
	}

	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	app.Run()
}
