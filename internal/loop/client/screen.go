package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/stardrift/internal/draw"
	"github.com/tomz197/stardrift/internal/game"
	"github.com/tomz197/stardrift/internal/loop/config"
	"github.com/tomz197/stardrift/internal/loop/server"
	"github.com/tomz197/stardrift/internal/object"
)

// titleArt is the intro title (figlet "small" font).
var titleArt = []string{
	`  ___ _____ _   ___ ___  ___ ___ ___ _____ `,
	` / __|_   _/_\ | _ \   \| _ \_ _| __|_   _|`,
	` \__ \ | |/ _ \|   / |) |   /| || _|  | |  `,
	` |___/ |_/_/ \_\_|_\___/|_|_\___|_|   |_|  `,
}

// introLines are revealed one per scroll step.
var introLines = []string{
	"Somewhere past the last beacon, the rocks start moving.",
	"Your ship follows the pointer. Smoothly, never instantly.",
	"Hold the left button (or tap SPACE) to thrust.",
	"Thrust moves the field and earns points. Letting go costs speed.",
	"Touch nothing. Reach the far side and you get to land.",
	"Launching...",
}

// mode derives what the client should currently show.
func (c *Client) mode() screenMode {
	switch {
	case c.state.shuttingDown:
		return modeShutdown
	case c.state.isInactive:
		return modeInactive
	}
	switch c.core.State() {
	case game.StateIdle:
		return modeIntro
	case game.StateCrashed:
		return modeCrashed
	case game.StateLanding, game.StateResetting:
		return modeLanding
	default:
		return modePlaying
	}
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// A full clear on mode changes keeps UI from the previous mode off screen.
	mode := c.mode()
	if mode != c.state.prevMode {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevMode = mode
	}

	c.canvas.Clear()

	frame := c.core.Snapshot(&c.frame)
	c.drawWorld(frame)

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(mode, frame, c.server.GetSnapshot())

	return c.chunkWriter.Flush()
}

// drawWorld draws stars, obstacles, particles and the ship onto the canvas.
func (c *Client) drawWorld(frame *game.Frame) {
	for _, s := range frame.Stars {
		c.canvas.SetFloat(s.X, s.Y, draw.ColorGray)
	}

	for _, o := range frame.Obstacles {
		c.canvas.DrawCircle(o.X, o.Y, o.Radius, o.Alpha, draw.ColorWhite)
	}

	c.particles.Each(func(p *object.Particle) {
		if !p.Visible() {
			return
		}
		color := draw.ColorYellow
		if p.Drag > 0.9 {
			color = draw.ColorRed // crash debris
		}
		c.canvas.SetFloat(p.X, p.Y, color)
	})

	ship := frame.Ship
	if frame.State == game.StateIdle || !ship.Visible {
		return
	}
	cfg := c.core.Tuning().Ship
	pts := draw.ShipShape(c.canvas.BorrowPoints(4), ship.X, ship.Y, ship.HeadingX, ship.HeadingY, cfg.HalfLength, cfg.HalfWidth)
	c.canvas.DrawPolygon(pts, true, draw.ColorCyan)

	if ship.Thrust {
		flicker := float64(c.flicker%4) / 3
		pts = draw.FlameShape(c.canvas.BorrowPoints(3), ship.ExhaustX, ship.ExhaustY, ship.HeadingX, ship.HeadingY, cfg.HalfLength*0.6, cfg.HalfWidth*0.5, flicker)
		c.canvas.DrawPolygon(pts, true, draw.ColorYellow)
	}
}

// drawUI draws the text overlay for the current mode.
func (c *Client) drawUI(mode screenMode, frame *game.Frame, snapshot *server.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	switch mode {
	case modeShutdown:
		c.drawShutdownScreen(centerX, centerY)
		return
	case modeInactive:
		c.drawInactivityScreen(centerX, centerY)
		return
	case modeIntro:
		c.drawIntro(centerX, centerY, frame)
	case modePlaying:
		c.drawPlayingHUD(termWidth, termHeight, frame, snapshot)
	case modeCrashed:
		c.drawPlayingHUD(termWidth, termHeight, frame, snapshot)
		c.drawCrashScreen(centerX, centerY, frame)
	case modeLanding:
		c.drawLandingBanner(centerX, centerY, frame)
	}

	if c.state.toastTime > 0 && c.state.toast != "" {
		c.text(centerX-len(c.state.toast)/2, termHeight-1, draw.ColorMagenta, c.state.toast)
	}
}

// text writes s at (col, row) and marks the cells so the canvas repaints
// them once the text is gone.
func (c *Client) text(col, row int, color draw.Color, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() || col < 1 {
		return
	}
	if color == draw.ColorNone {
		c.chunkWriter.WriteAt(col, row, s)
	} else {
		c.chunkWriter.WriteColorAt(col, row, color, s)
	}
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// centered writes s centred on centerX.
func (c *Client) centered(centerX, row int, color draw.Color, s string) {
	c.text(centerX-len([]rune(s))/2, row, color, s)
}

// drawIntro draws the title, the lines revealed so far and a scroll bar.
func (c *Client) drawIntro(centerX, centerY int, frame *game.Frame) {
	top := centerY - 8

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}
	for i, line := range titleArt {
		c.text(centerX-titleWidth/2, top+i, draw.ColorBrightCyan, line)
	}

	linesY := top + len(titleArt) + 2
	shown := min(c.intro.Step(), len(introLines))
	for i := 0; i < shown; i++ {
		c.centered(centerX, linesY+i, draw.ColorNone, introLines[i])
	}

	barY := linesY + len(introLines) + 1
	const barWidth = 30
	var bar strings.Builder
	progress := c.intro.Progress()
	for i := 0; i < barWidth; i++ {
		cellFill := progress*barWidth - float64(i)
		bar.WriteRune(draw.ShadeLevel(cellFill))
	}
	c.centered(centerX, barY, draw.ColorCyan, "["+bar.String()+"]")

	if time.Now().UnixMilli()/600%2 == 0 {
		c.centered(centerX, barY+2, draw.ColorNone, ">>  Scroll down (or press ENTER)  <<")
	}

	best := fmt.Sprintf("Best: %d", frame.HighScore)
	if frame.InfiniteUnlocked {
		best += "   Infinite mode unlocked"
	}
	c.centered(centerX, barY+4, draw.ColorGray, best)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, frame *game.Frame, snapshot *server.Snapshot) {
	c.text(2, 1, draw.ColorNone, fmt.Sprintf("Score: %-8d", frame.Points))

	best := fmt.Sprintf("Best: %-8d", frame.HighScore)
	c.text(termWidth-len(best)-1, 1, draw.ColorNone, best)

	c.drawDifficultyMeter(2, 2, frame.Difficulty)

	if frame.InfiniteUnlocked {
		c.text(2, 3, draw.ColorMagenta, "INFINITE")
	}

	c.drawLeaderboard(termWidth, snapshot)

	players := fmt.Sprintf("Players: %-3d Flying: %-3d", snapshot.Players, snapshot.Flying)
	c.text(termWidth-len(players)-1, termHeight, draw.ColorGray, players)

	if frame.State == game.StateCoasting {
		c.text(2, termHeight, draw.ColorGray, "Hold click / SPACE to thrust   Scroll up to leave")
	} else {
		c.text(2, termHeight, draw.ColorGray, strings.Repeat(" ", 49))
	}
}

// drawDifficultyMeter draws the difficulty as a shaded bar.
func (c *Client) drawDifficultyMeter(col, row int, level float64) {
	const width = 12
	maxLevel := c.core.Tuning().MaxDifficulty
	span := maxLevel - game.BaseDifficulty
	fill := 0.0
	if span > 0 {
		fill = (level - game.BaseDifficulty) / span * width
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		b.WriteRune(draw.ShadeLevel(fill - float64(i)))
	}
	c.text(col, row, draw.ColorNone, "Speed ")
	c.text(col+6, row, draw.ColorYellow, b.String())
	c.text(col+6+width, row, draw.ColorNone, fmt.Sprintf(" x%.2f", level))
}

// drawLeaderboard lists the best scores of connected players.
func (c *Client) drawLeaderboard(termWidth int, snapshot *server.Snapshot) {
	const width = config.MaxUsernameLength + 8
	col := termWidth - width - 1
	if col < 30 || len(snapshot.TopScores) == 0 {
		return
	}
	for i, entry := range snapshot.TopScores {
		color := draw.ColorNone
		if entry.Username == c.handle.Username {
			color = draw.ColorBrightCyan
		}
		line := fmt.Sprintf("%d. %-*s %4d", i+1, config.MaxUsernameLength, entry.Username, entry.Score)
		c.text(col, 3+i, color, line)
	}
}

// drawCrashScreen draws the crash banner over the frozen field.
func (c *Client) drawCrashScreen(centerX, centerY int, frame *game.Frame) {
	art := []string{
		`   ___ ___    _   ___ _  _ ___ ___  `,
		`  / __| _ \  /_\ / __| || | __|   \ `,
		` | (__|   / / _ \\__ \ __ | _|| |) |`,
		`  \___|_|_\/_/ \_\___/_||_|___|___/ `,
	}
	top := centerY - 4
	for i, line := range art {
		c.centered(centerX, top+i, draw.ColorRed, line)
	}

	c.centered(centerX, top+len(art)+1, draw.ColorNone, fmt.Sprintf("Score: %d", c.state.crashPoints))
	if c.state.newBest {
		c.centered(centerX, top+len(art)+2, draw.ColorYellow, "New best!")
	} else if frame.Stage == game.StageCrashDelay {
		c.centered(centerX, top+len(art)+2, draw.ColorGray, fmt.Sprintf("Best: %d", frame.HighScore))
	}
}

// drawLandingBanner shows the message for the current landing stage. A
// banner whose sequence was cancelled is not drawn.
func (c *Client) drawLandingBanner(centerX, centerY int, frame *game.Frame) {
	if !c.core.SequenceCurrent(c.state.victoryGen) {
		return
	}

	var msg string
	color := draw.ColorNone
	switch c.state.victoryStage {
	case game.StageLandingApproach:
		msg = "You made it through. Approaching the landing zone..."
	case game.StageLandingTouchdown:
		msg = "Touchdown."
		color = draw.ColorCyan
	case game.StageLandingCelebrate:
		msg = "Infinite mode unlocked. The field never ends now."
		color = draw.ColorYellow
	default:
		return
	}

	c.centered(centerX, centerY-2, color, msg)
	c.centered(centerX, centerY, draw.ColorNone, fmt.Sprintf("Score: %-8d", frame.Points))
	if c.state.newBest {
		c.centered(centerX, centerY+1, draw.ColorYellow, "New best!")
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.centered(centerX, centerY-2, draw.ColorYellow, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.centered(centerX, centerY, draw.ColorNone, msg)
	c.centered(centerX, centerY+2, draw.ColorNone, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.centered(centerX, centerY-3, draw.ColorRed, "SERVER SHUTTING DOWN")
	c.centered(centerX, centerY-1, draw.ColorNone, "The server is restarting for maintenance.")
	c.centered(centerX, centerY, draw.ColorNone, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTime) + 1
	c.centered(centerX, centerY+2, draw.ColorNone, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.centered(centerX, centerY+4, draw.ColorGray, "Press Q to disconnect now")
}
