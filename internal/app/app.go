package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/ringpfp/internal/assets"
	"github.com/rook-computer/ringpfp/internal/render"
	"github.com/rook-computer/ringpfp/internal/schedule"
	"github.com/rook-computer/ringpfp/internal/state"
	"github.com/rook-computer/ringpfp/internal/variant"
)

// App wires the store, scheduler and pipeline together. It is the single
// owner of the render surface.
type App struct {
	Store     *state.Store
	Scheduler *schedule.Scheduler
	Frames    schedule.FrameDriver
	Logger    Logger
	Debug     bool

	// ExportPath is where the Export button writes.
	ExportPath string

	variant  variant.Variant
	pipeline *render.Pipeline

	renderMu sync.Mutex
	surface  *render.Surface
	seq      uint64
	lastErr  error

	listenersMu sync.Mutex
	listeners   map[int]func(seq uint64)
	nextID      int

	exitOnce atomic.Bool
	exitCh   chan error
}

// New loads the bundled stamp and builds an App on the variant's defaults.
// Frames drives scheduled renders; a TickerDriver is used when nil.
func New(v variant.Variant, frames schedule.FrameDriver, logger Logger) (*App, error) {
	stamp, err := assets.DefaultStamp()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NoopLogger{}
	}
	if frames == nil {
		frames = schedule.NewTickerDriver(schedule.DefaultRefreshRate)
	}
	defaults := v.ResetParams()
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("variant %s defaults: %w", v.Name, err)
	}
	app := &App{
		Store:     state.NewStore(defaults, stamp),
		Frames:    frames,
		Logger:    logger,
		variant:   v,
		pipeline:  render.NewPipeline(v),
		surface:   render.NewSurface(defaults.CanvasSize),
		listeners: map[int]func(uint64){},
		exitCh:    make(chan error, 1),
	}
	app.pipeline.Logger = logger
	app.ExportPath = render.ExportFileName
	app.Scheduler = schedule.NewScheduler(frames, app.renderFrame)
	return app, nil
}

// Variant returns the active presentation preset.
func (app *App) Variant() variant.Variant { return app.variant }

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start schedules the first frame, runs the frame driver if it owns a loop
// and blocks until ctx is done or Exit is called.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	app.pipeline.Debug = app.Debug
	app.Logger.Infof("app", "starting with variant %s", app.variant.Name)

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if runner, ok := app.Frames.(interface{ Run(context.Context) }); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Run(loopCtx)
		}()
	}
	app.Scheduler.Schedule()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// Stop drops all render listeners.
func (app *App) Stop() error {
	app.listenersMu.Lock()
	app.listeners = map[int]func(uint64){}
	app.listenersMu.Unlock()
	return nil
}

// OnRender registers fn to run after every pipeline run with its sequence
// number. The returned func unregisters it.
func (app *App) OnRender(fn func(seq uint64)) (cancel func()) {
	app.listenersMu.Lock()
	id := app.nextID
	app.nextID++
	app.listeners[id] = fn
	app.listenersMu.Unlock()
	return func() {
		app.listenersMu.Lock()
		delete(app.listeners, id)
		app.listenersMu.Unlock()
	}
}

// renderFrame runs the pipeline on the state current at call time.
func (app *App) renderFrame() {
	app.renderMu.Lock()
	snap := app.Store.Snapshot()
	err := app.pipeline.Render(app.surface, snap)
	app.lastErr = err
	app.seq++
	seq := app.seq
	app.renderMu.Unlock()

	if err != nil {
		app.Logger.Errorf("render", "frame %d failed: %v", seq, err)
		return
	}
	if app.Debug {
		app.Logger.Infof("render", "frame %d done, size=%d avatar=%t", seq, snap.Params.CanvasSize, snap.HasAvatar())
	}

	app.listenersMu.Lock()
	fns := make([]func(uint64), 0, len(app.listeners))
	for _, fn := range app.listeners {
		fns = append(fns, fn)
	}
	app.listenersMu.Unlock()
	for _, fn := range fns {
		fn(seq)
	}
}

// Frame returns a copy of the current surface pixels. It never renders.
func (app *App) Frame() *image.RGBA {
	app.renderMu.Lock()
	defer app.renderMu.Unlock()
	return app.surface.Snapshot()
}

// Seq returns how many pipeline runs have completed.
func (app *App) Seq() uint64 {
	app.renderMu.Lock()
	defer app.renderMu.Unlock()
	return app.seq
}

// Export renders synchronously and writes the result as PNG.
func (app *App) Export(w io.Writer) error {
	app.Scheduler.ForceRender()
	app.renderMu.Lock()
	defer app.renderMu.Unlock()
	if app.lastErr != nil {
		return app.lastErr
	}
	return app.surface.EncodePNG(w)
}

// ExportFile renders synchronously and writes a PNG file.
func (app *App) ExportFile(path string) error {
	app.Scheduler.ForceRender()
	app.renderMu.Lock()
	defer app.renderMu.Unlock()
	if app.lastErr != nil {
		return app.lastErr
	}
	if err := app.surface.WriteFile(path); err != nil {
		return err
	}
	app.Logger.Infof("export", "wrote %s", path)
	return nil
}
