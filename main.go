package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/gg"

	"github.com/rook-computer/ringpfp/internal/app"
	"github.com/rook-computer/ringpfp/internal/buttons"
	"github.com/rook-computer/ringpfp/internal/config"
	"github.com/rook-computer/ringpfp/internal/present"
	"github.com/rook-computer/ringpfp/internal/schedule"
	"github.com/rook-computer/ringpfp/internal/state"
	"github.com/rook-computer/ringpfp/internal/system"
	"github.com/rook-computer/ringpfp/internal/web"
)

const debugLogPath = "./ringpfp-debug.log"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		fmt.Println("config error:", err)
		return 2
	}

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	if cfg.StdioLog != "" {
		if err := redirectStdIO(cfg.StdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	logger := app.NewSlogLogger(os.Stderr, false)
	if cfg.Debug {
		f, err := os.OpenFile(debugLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewSlogLogger(f, true)
			gg.SetLogger(logger.Slog)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	v, err := cfg.LoadVariant()
	if err != nil {
		fmt.Println("variant error:", err)
		return 2
	}

	a, err := app.New(v, schedule.NewTickerDriver(cfg.RefreshRate), logger)
	if err != nil {
		fmt.Println("startup error:", err)
		return 1
	}
	a.Debug = cfg.Debug
	a.ExportPath = cfg.Out

	if err := a.LoadInputs(cfg.Avatar, cfg.Stamp, cfg.ParamsFile); err != nil {
		fmt.Println(err)
		return exitCode(err)
	}

	if !cfg.Serve && !cfg.Framebuffer && !cfg.Watch {
		if err := a.ExportFile(cfg.Out); err != nil {
			fmt.Println("export error:", err)
			return exitCode(err)
		}
		fmt.Println("wrote", cfg.Out)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		oneShot := !cfg.Serve && !cfg.Framebuffer
		err := config.Watch(ctx, cfg.ParamsFile, func(patch state.ParamsPatch, err error) {
			if err != nil {
				logger.Errorf("watch", "params reload failed: %v", err)
				return
			}
			if err := a.ApplyPatch(patch); err != nil {
				logger.Errorf("watch", "params rejected: %v", err)
				return
			}
			logger.Infof("watch", "params reloaded from %s", cfg.ParamsFile)
			if oneShot {
				if err := a.ExportFile(cfg.Out); err != nil {
					logger.Errorf("export", "%v", err)
				}
			}
		})
		if err != nil {
			fmt.Println("watch error:", err)
			return 1
		}
		if oneShot {
			if err := a.ExportFile(cfg.Out); err != nil {
				fmt.Println("export error:", err)
				return exitCode(err)
			}
		}
	}

	var server *web.HTTPServer
	if cfg.Serve {
		serverCfg, err := web.DefaultServerConfigFromEnv(":8080")
		if err != nil {
			fmt.Println("server config error:", err)
			return 2
		}
		server = web.NewHTTPServer(serverCfg, web.APIV1Config{Compositor: a, Logger: logger})
		if err := server.Start(ctx); err != nil {
			fmt.Println("server start error:", err)
			return 1
		}
		defer server.Stop()
		fmt.Println("ringpfp listening on", server.ListenAddr())
	}

	if cfg.Framebuffer {
		stopFB, err := startFramebuffer(ctx, a, cfg, server, logger)
		if err != nil {
			fmt.Println("framebuffer error:", err)
			return 1
		}
		defer stopFB()
	}

	if err := a.Start(ctx); err != nil {
		fmt.Println("app error:", err)
		return 1
	}
	if err := a.Stop(); err != nil {
		fmt.Println("app stop error:", err)
	}
	return 0
}

// exitCode maps decode failures to 1 and parameter validation failures to 2.
func exitCode(err error) int {
	var verr *state.ValidationError
	if errors.As(err, &verr) {
		return 2
	}
	return 1
}

// startFramebuffer puts the console in graphics mode, presents every rendered
// frame and binds the device keys. The returned func undoes all of it.
func startFramebuffer(ctx context.Context, a *app.App, cfg config.Config, server *web.HTTPServer, logger app.Logger) (func(), error) {
	url := ""
	if server != nil {
		host, err := system.LocalIPv4()
		if err != nil {
			logger.Errorf("fb", "local address lookup failed: %v", err)
		}
		url = system.ControlURL(server.ListenAddr(), host)
	}

	presenter := present.NewFBPresenter("ring pfp · "+a.Variant().Name, url)
	presenter.Logger = logger
	presenter.Debug = cfg.Debug
	if err := presenter.Start(ctx); err != nil {
		return nil, err
	}
	_ = system.EnterGraphics(logger)

	show := func(seq uint64) {
		p := a.Params()
		presenter.Present(a.Frame(),
			fmt.Sprintf("frame %d", seq),
			fmt.Sprintf("ring %d  scale %d%%  offset %d", p.RingCount, p.LogoScale, p.RingOffset),
			fmt.Sprintf("border %d  shadow %d", p.BorderThickness, p.ShadowStrength),
			url,
		)
	}
	cancelRender := a.OnRender(show)

	keyCtx, cancelKeys := context.WithCancel(ctx)
	keys := buttons.NewQueue(16)
	if err := a.RunButtons(keyCtx, keys); err != nil {
		logger.Errorf("input", "buttons: %v", err)
	}
	system.WatchKeys(keyCtx, logger, keys.Bind(map[uint16]buttons.Event{
		system.KeyEsc:   buttons.Exit,
		system.KeyF4:    buttons.Exit,
		system.KeyR:     buttons.Reset,
		system.KeyS:     buttons.Export,
		system.KeyT:     buttons.ToggleTangent,
		system.KeyB:     buttons.ToggleBackground,
		system.KeyUp:    buttons.RingMore,
		system.KeyDown:  buttons.RingLess,
		system.KeyRight: buttons.ScaleUp,
		system.KeyLeft:  buttons.ScaleDown,
	}))

	return func() {
		cancelKeys()
		_ = keys.Stop()
		cancelRender()
		_ = system.LeaveGraphics(logger)
		_ = presenter.Stop()
	}, nil
}
