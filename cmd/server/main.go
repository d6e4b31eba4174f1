package main

import (
	"errors"
	"flag"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/coursemark/coursemark/internal/assess"
	"github.com/coursemark/coursemark/internal/config"
	"github.com/coursemark/coursemark/internal/server"
	"github.com/coursemark/coursemark/internal/source"
)

func main() {
	configPath := flag.String("config", "coursemark.yaml", "path to the configuration file")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "coursemark"})

	cfg, err := config.Load(*configPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		logger.Warn("config file not found, using defaults", "path", *configPath)
		cfg = config.Default()
	} else if err != nil {
		logger.Fatal("loading config", "err", err)
	}

	src, err := source.New(cfg.Source)
	if err != nil {
		logger.Fatal("opening history source", "err", err)
	}

	engine := assess.NewEngine(assess.NewLoader(cfg.SchemeDir), src, logger)
	srv := server.NewServer(src, engine, logger)

	logger.Info("server listening", "addr", cfg.ListenAddr, "source", cfg.Source.Kind)
	if err := http.ListenAndServe(cfg.ListenAddr, srv); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}
