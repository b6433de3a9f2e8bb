package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/rook-computer/ringpfp/internal/app"
	"github.com/rook-computer/ringpfp/internal/config"
	"github.com/rook-computer/ringpfp/internal/schedule"
	"github.com/rook-computer/ringpfp/internal/state"
	"github.com/rook-computer/ringpfp/internal/web"
)

const debugLogPath = "./ringpfp-preview-debug.log"

func main() {
	cfg, err := config.Parse("preview", os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	var logger app.Logger = app.NoopLogger{}
	if cfg.Debug {
		f, err := os.OpenFile(debugLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	v, err := cfg.LoadVariant()
	if err != nil {
		fmt.Println("variant error:", err)
		os.Exit(2)
	}

	// The window's Update tick is the display-refresh hook.
	frames := &schedule.FrameQueue{}
	a, err := app.New(v, frames, logger)
	if err != nil {
		fmt.Println("startup error:", err)
		os.Exit(1)
	}
	a.Debug = cfg.Debug
	a.ExportPath = cfg.Out
	if err := a.LoadInputs(cfg.Avatar, cfg.Stamp, cfg.ParamsFile); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		err := config.Watch(ctx, cfg.ParamsFile, func(patch state.ParamsPatch, err error) {
			if err == nil {
				err = a.ApplyPatch(patch)
			}
			if err != nil {
				logger.Errorf("watch", "params reload failed: %v", err)
			}
		})
		if err != nil {
			fmt.Println("watch error:", err)
			os.Exit(1)
		}
	}

	if cfg.Serve {
		serverCfg, err := web.DefaultServerConfigFromEnv(":8081")
		if err != nil {
			fmt.Println("server config error:", err)
			os.Exit(2)
		}
		server := web.NewHTTPServer(serverCfg, web.APIV1Config{Compositor: a, Logger: logger})
		if err := server.Start(ctx); err != nil {
			fmt.Println("server start error:", err)
			os.Exit(1)
		}
		defer server.Stop()
		fmt.Println("ringpfp preview API on", server.ListenAddr())
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := a.Start(ctx); err != nil {
			logger.Errorf("app", "%v", err)
		}
	}()

	g := newGame(a, frames, done)
	ebiten.SetWindowTitle("ring pfp · " + v.Name)
	ebiten.SetWindowSize(windowSize, windowSize)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Println("window error:", err)
	}
	stop()
	<-done
	_ = a.Stop()
}
