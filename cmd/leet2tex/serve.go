package main

import (
	"context"

	"go.uber.org/zap/zapcore"

	leet2tex "github.com/alnah/go-leet2tex"
	"github.com/alnah/go-leet2tex/internal/server"
)

// runServe serves the HTTP API until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.common, f.pipeline, env)
	if err != nil {
		return err
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}

	log, err := newLogger(cfg, f.common, zapcore.InfoLevel, env.Stderr)
	if err != nil {
		return err
	}
	defer log.Sync()

	conv, err := newConverter(cfg, env)
	if err != nil {
		return err
	}

	opts := libraryOptions(cfg, newSource(cfg, env), conv, log)
	workers := server.ResolveWorkers(f.workers)
	log.Debug("serve configuration",
		"addr", cfg.Server.Addr,
		"workers", workers,
		"converter", cfg.Converter.Backend,
		"language", cfg.LeetCode.Language,
	)

	srv := server.New(
		leet2tex.NewRenderer(opts...),
		leet2tex.NewMediaCollector(opts...),
		server.WithLogger(log),
		server.WithLimiter(server.NewLimiter(workers)),
	)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
