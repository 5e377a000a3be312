// Command fetch builds an ERA5 retrieval request and downloads the result
// from the Copernicus Climate Data Store.
//
// Usage:
//
//	fetch -request request.json
//	fetch -dataset reanalysis-era5-land -dry-run
//
// Without -request the stock single-levels coverage is used. The request
// file is a JSON object in the builder vocabulary; range shorthands take
// [start, stop] pairs and the cyclic axes may wrap:
//
//	{
//	  "variables": ["2m_temperature", "total_precipitation"],
//	  "year_range": [2020, 2024],
//	  "month_range": [9, 4],
//	  "time_range": [0, 12],
//	  "area": [60, -10, 35, 30]
//	}
//
// Credentials and endpoints come from the environment (CDS_API_URL,
// CDS_API_KEY), optionally via a .env file. Setting HTTP_ADDR serves
// /healthz, /readyz, and /metrics for the duration of the download.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SurfyPenguin/cds-weather-api/internal/adapter/cds"
	httpadapter "github.com/SurfyPenguin/cds-weather-api/internal/adapter/http"
	"github.com/SurfyPenguin/cds-weather-api/internal/config"
	"github.com/SurfyPenguin/cds-weather-api/internal/observability"
	"github.com/SurfyPenguin/cds-weather-api/internal/request"
)

func main() {
	requestFile := flag.String("request", "", "path to a JSON request parameter file")
	dataset := flag.String("dataset", "", "override the dataset identifier")
	target := flag.String("target", "", "override the download target directory")
	dryRun := flag.Bool("dry-run", false, "print the assembled payload as JSON and exit")
	flag.Parse()

	builder := request.NewBuilder()
	if *requestFile != "" {
		params, err := loadParams(*requestFile)
		if err != nil {
			slog.Error("failed to load request file", "path", *requestFile, "error", err)
			os.Exit(1)
		}
		builder.Apply(params)
	}
	if *dataset != "" {
		builder.Dataset(*dataset)
	}

	req, err := builder.Build()
	if err != nil {
		slog.Error("invalid request", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		out, err := json.MarshalIndent(map[string]any{
			"dataset": req.Dataset,
			"request": req.Payload(),
		}, "", "  ")
		if err != nil {
			slog.Error("failed to encode payload", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *target != "" {
		cfg.TargetDir = *target
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	client := cds.NewClient(cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serve health and metrics while the download runs, if configured.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, client, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	path, execErr := req.Execute(ctx, client)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if execErr != nil {
		logger.Error("retrieval failed", "dataset", req.Dataset, "error", execErr)
		os.Exit(1)
	}
	logger.Info("download complete", "dataset", req.Dataset, "path", path)
}

func loadParams(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("parse request file: %w", err)
	}
	return params, nil
}
