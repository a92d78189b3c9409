package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/downfa11-org/boundlog/pkg/config"
	"github.com/downfa11-org/boundlog/pkg/disk"
	"github.com/downfa11-org/boundlog/pkg/logger"
	"github.com/downfa11-org/boundlog/pkg/metrics"
	"github.com/downfa11-org/boundlog/util"
)

func main() {
	defer util.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		util.Fatal("Failed to load config: %v", err)
	}

	util.Info("Writing %s (max %d bytes / %d lines) | Exporter: %v", cfg.LogPath, cfg.MaxBytes, cfg.MaxLines, cfg.EnableExporter)

	if cfg.EnableExporter {
		srv := metrics.StartMetricsServer(cfg.ExporterPort)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	lf := disk.New(cfg.LogPath, func(err error) {
		util.Warn("log write failed: %v", err)
	}, disk.WithConfig(cfg), disk.WithMetrics(cfg.EnableExporter))

	if err := lf.Open(); err != nil {
		if disk.IsShouldBail(err) {
			util.Fatal("Cannot write %s, not retrying: %v", cfg.LogPath, err)
		}
		util.Fatal("Failed to open %s: %v", cfg.LogPath, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			util.Error("stdin read failed: %v", err)
		}
	}()

	log := logger.New(lf)
	n := 0
loop:
	for {
		select {
		case <-ctx.Done():
			util.Info("Signal received, closing %s", cfg.LogPath)
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			in := parseInput(line)
			log.Log(in.Level, in.Msg, in.Fields)
			n++
		}
	}

	if err := lf.Close(); err != nil {
		util.Error("Failed to close %s: %v", cfg.LogPath, err)
	}
	util.Info("Wrote %d lines to %s", n, cfg.LogPath)
}
