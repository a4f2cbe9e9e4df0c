package daemon

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/username/global-calendar/internal/clock"
	"go.uber.org/zap"
)

// DefaultRefreshInterval is how often the world clock is redrawn
const DefaultRefreshInterval = time.Second

// Syncer is the calendar sync triggered from the tray menu
type Syncer interface {
	Sync(ctx context.Context) error
}

// Daemon keeps the world clock board refreshed until stopped
type Daemon struct {
	board           *clock.Board
	refreshInterval time.Duration
	out             io.Writer
	systemTray      bool
	syncer          Syncer
	logger          *zap.Logger
	ctx             context.Context
	cancel          context.CancelFunc
	trayApp         *TrayApp
	mu              sync.Mutex
	lastRender      string
	ticks           int
}

// NewDaemon creates a new daemon instance.
// A non-positive refreshInterval falls back to one second.
func NewDaemon(board *clock.Board, refreshInterval time.Duration, out io.Writer, systemTray bool, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}
	if out == nil {
		out = io.Discard
	}

	return &Daemon{
		board:           board,
		refreshInterval: refreshInterval,
		out:             out,
		systemTray:      systemTray,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// WithSyncer enables the "Sync Now" tray action
func (d *Daemon) WithSyncer(s Syncer) *Daemon {
	d.syncer = s
	return d
}

// Start runs the daemon until it is stopped or receives SIGINT/SIGTERM
func (d *Daemon) Start() error {
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			return d.Run(d.ctx)
		}
		d.trayApp = trayApp
		// blocks until Quit
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	return d.Run(d.ctx)
}

// Run redraws the board on every tick until ctx is done or a signal arrives
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("World clock started",
		zap.Duration("refresh_interval", d.refreshInterval),
		zap.Int("zones", len(d.board.Zones())))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := d.Tick(time.Now()); err != nil {
		return err
	}

	ticker := time.NewTicker(d.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("World clock stopped")
			d.stopTray()
			return nil

		case <-d.ctx.Done():
			d.logger.Info("World clock stopped")
			d.stopTray()
			return nil

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.stopTray()
			d.Stop()
			return nil

		case now := <-ticker.C:
			if err := d.Tick(now); err != nil {
				d.logger.Error("Failed to draw world clock", zap.Error(err))
			}
		}
	}
}

// Tick renders the board at now, writes it out and updates the tray tooltip
func (d *Daemon) Tick(now time.Time) error {
	text := d.board.Render(now)

	d.mu.Lock()
	d.lastRender = text
	d.ticks++
	d.mu.Unlock()

	if d.trayApp != nil {
		d.trayApp.SetTooltip(text)
	}

	if _, err := fmt.Fprintf(d.out, "%s\n\n", text); err != nil {
		return fmt.Errorf("failed to write clock: %w", err)
	}
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) stopTray() {
	if d.trayApp != nil {
		d.trayApp.Stop()
	}
}

// SyncNow triggers an immediate calendar sync (called from tray menu)
func (d *Daemon) SyncNow() {
	if d.syncer == nil {
		d.logger.Info("Sync requested but no calendar is configured")
		return
	}

	d.logger.Info("Manual sync triggered from tray")
	if err := d.syncer.Sync(d.ctx); err != nil {
		d.logger.Error("Manual sync failed", zap.Error(err))
		if d.trayApp != nil {
			d.trayApp.ShowNotification("Sync Failed", fmt.Sprintf("Error: %v", err))
		}
		return
	}

	d.logger.Info("Manual sync completed successfully")
	if d.trayApp != nil {
		d.trayApp.ShowNotification("Sync Completed", "Appointments exported")
	}
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	return map[string]interface{}{
		"running":          d.ctx.Err() == nil,
		"refresh_interval": d.refreshInterval.String(),
		"ticks":            d.ticks,
		"board":            d.lastRender,
	}
}
