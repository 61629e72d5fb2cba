package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/iwen-conf/DormDB/internal/bootstrap"
	"github.com/iwen-conf/DormDB/internal/config"
	"github.com/iwen-conf/DormDB/internal/services"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dormdb %s\n", services.Version)
		os.Exit(0)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
