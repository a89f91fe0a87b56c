package main

import (
	"log"
	"os"

	"github.com/avstrong/canchalibre/internal/app"
	"github.com/avstrong/canchalibre/internal/config"
	"github.com/avstrong/canchalibre/internal/logger"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	l := logger.New(os.Stdout, conf.LogLevel)

	var exitCode int

	if err := app.Run(l, conf); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
