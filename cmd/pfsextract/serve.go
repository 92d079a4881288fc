package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pfsextract/internal/logger"
	"github.com/samcharles93/pfsextract/internal/server"
)

var (
	serverAddr   = "127.0.0.1:8080"
	maxImageSize = server.DefaultMaxImageSize
)

func serveCmd() *cli.Command {
	var readTimeout time.Duration

	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the inspect and extract HTTP API",
		Before: reapplyConfig,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       serverAddr,
				Destination: &serverAddr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "max-image-size",
				Usage:       "largest accepted request body in bytes",
				Value:       maxImageSize,
				Destination: &maxImageSize,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			srv := server.New(log, server.WithMaxImageSize(maxImageSize))
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			srv.Register(e)

			log.Info("starting server", "address", serverAddr, "max_image_size", maxImageSize)
			sc := echo.StartConfig{
				Address: serverAddr,
				BeforeServeFunc: func(hs *http.Server) error {
					hs.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
