package main

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
