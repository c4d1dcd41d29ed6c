package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardrift/internal/draw"
	"github.com/tomz197/stardrift/internal/game"
	"github.com/tomz197/stardrift/internal/input"
	"github.com/tomz197/stardrift/internal/layout"
	"github.com/tomz197/stardrift/internal/loop/config"
	"github.com/tomz197/stardrift/internal/loop/server"
	"github.com/tomz197/stardrift/internal/object"
)

// keyStep is how far one arrow key press moves the pointer.
const keyStep = 2 * config.PixelsPerRow

// toastSeconds is how long transient messages stay on screen.
const toastSeconds = 4.0

// Client handles rendering and input for a single terminal connection.
// It owns one GameCore.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	core         *game.GameCore
	intro        *Intro
	state        *ClientState
	particles    object.Particles
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	log          *log.Logger
	stop         atomic.Bool

	frame   game.Frame // Reused snapshot
	flicker int
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Tuning       *game.Tuning // nil loads it from the environment
	Logger       *log.Logger
}

// NewClient creates a new client registered with the given server.
func NewClient(ctx context.Context, gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	tuning := opts.Tuning
	if tuning == nil {
		t := config.LoadTuning()
		tuning = &t
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	vp := viewportFor(renderWidth, renderHeight)

	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, vp.Width, vp.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		server:       gs,
		handle:       gs.RegisterClient(opts.Username),
		intro:        NewIntro(config.IntroSteps),
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		log:          logger,
	}
	c.core = game.New(ctx, game.Options{
		Tuning:   tuning,
		Viewport: vp,
		Store:    gs.Store(),
		Listener: &effects{c: c},
		Logger:   logger,
	})
	return c
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.EnterAltScreen(c.writer)
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	draw.ClearScreen(c.writer)
	defer func() {
		draw.DisableMouse(c.writer)
		draw.ShowCursor(c.writer)
		draw.LeaveAltScreen(c.writer)
	}()
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running && !c.stop.Load() {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.tick()

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	return nil
}

// Stop makes Run return after the current frame. Safe for concurrent use.
func (c *Client) Stop() {
	c.stop.Store(true)
}

// tick runs one frame of input, events and simulation.
func (c *Client) tick() {
	c.processInput()
	c.processServerEvents()
	c.updateScreen()

	if c.state.shuttingDown {
		c.state.shutdownTime -= c.state.delta.Seconds()
		if c.state.shutdownTime <= 0 {
			c.state.Running = false
		}
		return
	}

	c.core.Step(c.state.delta)
	c.updateEffects()
	c.server.ReportScore(c.handle.ID, c.core.Points(), c.core.State())
}

// processInput reads input and forwards it to the intro or the game.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)
	c.state.Input = in

	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
		return
	}
	if c.state.shuttingDown {
		return
	}

	wasIdle := c.core.State() == game.StateIdle
	c.handleIntroInput(in, wasIdle)
	if !wasIdle {
		c.handleGameInput(in)
	}
}

// handleIntroInput scrolls the intro. The wheel scrolls in every state;
// keys only while the intro is showing.
func (c *Client) handleIntroInput(in input.Input, idle bool) {
	steps := in.Mouse.WheelDown - in.Mouse.WheelUp
	if idle {
		if in.Down || in.Enter || in.Space {
			steps++
		}
		if in.Up {
			steps--
		}
	}
	c.scrollIntro(steps)
}

// scrollIntro moves the intro by steps and starts or abandons the game
// when the end is reached or left.
func (c *Client) scrollIntro(steps int) {
	for ; steps > 0; steps-- {
		if c.intro.Advance() {
			c.core.EnableGame()
		}
	}
	for ; steps < 0; steps++ {
		if c.intro.Back() {
			c.core.DisableGame()
		}
	}
}

// handleGameInput steers with the mouse or arrow keys and maps the left
// button (or Space as a toggle) to thrust.
func (c *Client) handleGameInput(in input.Input) {
	m := in.Mouse
	if m.Moved {
		x, y := c.canvas.TerminalToLogical(m.Col, m.Row)
		c.core.SetPointer(x+config.PixelsPerColumn/2, y+config.PixelsPerRow/2)
	}

	if in.Left || in.Right || in.Up || in.Down {
		p := c.core.Pointer()
		switch {
		case in.Left:
			p.X -= keyStep
		case in.Right:
			p.X += keyStep
		}
		switch {
		case in.Up:
			p.Y -= keyStep
		case in.Down:
			p.Y += keyStep
		}
		c.core.SetPointer(p.X, p.Y)
	}

	if m.Press || m.Release {
		c.core.SetThrust(m.Held)
	}
	if in.Space {
		c.core.SetThrust(c.core.State() != game.StateThrusting)
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.shuttingDown = true
				c.state.shutdownTime = config.ShutdownDisplaySeconds
			case server.EventNewRecord:
				c.state.toast = fmt.Sprintf("%s set a new record: %d", event.Username, event.Score)
				c.state.toastTime = toastSeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	vp := viewportFor(renderWidth, renderHeight)
	c.canvas.Resize(renderWidth, renderHeight, vp.Width, vp.Height)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.core.SetViewport(vp.Width, vp.Height)
}

// updateEffects advances particles, emits exhaust and counts down toasts.
func (c *Client) updateEffects() {
	ship := c.core.Ship()
	if ship.Thrusting && ship.Visible {
		hx, hy := ship.Heading(c.core.Policy())
		object.SpawnExhaust(ship.ExhaustX, ship.ExhaustY, hx, hy, &c.particles)
	}
	c.particles.Update(c.state.delta)

	if c.state.toastTime > 0 {
		c.state.toastTime -= c.state.delta.Seconds()
	}
	c.flicker++
}

// viewportFor returns the logical playfield for a render area in cells.
func viewportFor(cols, rows int) layout.Viewport {
	return layout.Viewport{
		Width:  float64(max(cols, 1) * config.PixelsPerColumn),
		Height: float64(max(rows, 1) * config.PixelsPerRow),
	}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
