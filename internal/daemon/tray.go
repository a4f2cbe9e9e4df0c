//go:build windows
// +build windows

package daemon

import (
	_ "embed"
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"go.uber.org/zap"
)

//go:embed clock.ico
var clockIcon []byte

var (
	user32      = syscall.NewLazyDLL("user32.dll")
	messageBoxW = user32.NewProc("MessageBoxW")
)

const (
	MB_OK              = 0x00000000
	MB_ICONINFORMATION = 0x00000040
)

// TrayApp represents system tray application
type TrayApp struct {
	daemon *Daemon
	logger *zap.Logger
	ready  chan struct{}
	quit   chan struct{}
}

// NewTrayApp creates a new system tray application
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		daemon: daemon,
		logger: logger,
		ready:  make(chan struct{}),
		quit:   make(chan struct{}),
	}, nil
}

// Run starts the system tray application (blocks until Quit)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayApp) onReady() {
	systray.SetIcon(clockIcon)
	systray.SetTitle("GC")
	systray.SetTooltip("Global Calendar")
	close(t.ready)

	mClocks := systray.AddMenuItem("Show Clocks", "Show the world clock")
	mSyncNow := systray.AddMenuItem("Sync Now", "Export appointments to the calendar")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the application")

	go func() {
		if err := t.daemon.Run(t.daemon.ctx); err != nil {
			t.logger.Error("World clock failed", zap.Error(err))
		}
	}()

	go func() {
		for {
			select {
			case <-mClocks.ClickedCh:
				t.showClocks()
			case <-mSyncNow.ClickedCh:
				t.logger.Info("Sync Now clicked from tray")
				go t.daemon.SyncNow()
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.daemon.Stop()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	select {
	case <-t.quit:
	default:
		close(t.quit)
	}
}

// SetTooltip shows the current board in the tray tooltip
func (t *TrayApp) SetTooltip(text string) {
	select {
	case <-t.ready:
		systray.SetTooltip(text)
	default:
	}
}

// ShowNotification logs a notification; fyne.io/systray has no balloon support
func (t *TrayApp) ShowNotification(title, message string) {
	t.logger.Info("Notification", zap.String("title", title), zap.String("message", message))
}

func (t *TrayApp) showClocks() {
	status := t.daemon.GetStatus()
	board, _ := status["board"].(string)
	if board == "" {
		board = "No clocks yet"
	}
	showMessageBox("World Clock", board)
}

func showMessageBox(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(MB_OK|MB_ICONINFORMATION),
	)
}
