package wakelock

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverService   = "org.freedesktop.ScreenSaver"
	screenSaverPath      = "/org/freedesktop/ScreenSaver"
	screenSaverInhibit   = "org.freedesktop.ScreenSaver.Inhibit"
	screenSaverUnInhibit = "org.freedesktop.ScreenSaver.UnInhibit"
)

// DBusLocker engages the desktop's native idle inhibitor through the
// org.freedesktop.ScreenSaver interface on the session bus. The inhibit
// cookie is held until released; losing the bus connection invalidates it.
type DBusLocker struct {
	mu     sync.Mutex
	conn   *dbus.Conn
	cookie uint32
	held   bool

	// connect is swappable for tests
	connect func() (*dbus.Conn, error)
}

// NewDBusLocker creates an unengaged DBusLocker.
func NewDBusLocker() *DBusLocker {
	return &DBusLocker{connect: dbus.SessionBus}
}

func (d *DBusLocker) Name() string { return "dbus-screensaver" }

func (d *DBusLocker) Available() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureConnLocked() == nil
}

func (d *DBusLocker) ensureConnLocked() error {
	if d.conn != nil && d.conn.Connected() {
		return nil
	}
	conn, err := d.connect()
	if err != nil {
		return fmt.Errorf("session bus unavailable: %w", err)
	}
	d.conn = conn
	return nil
}

func (d *DBusLocker) Acquire(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.held {
		return nil
	}
	if err := d.ensureConnLocked(); err != nil {
		return err
	}

	obj := d.conn.Object(screenSaverService, dbus.ObjectPath(screenSaverPath))
	call := obj.CallWithContext(ctx, screenSaverInhibit, 0, "woodshed", "practice session in progress")
	if call.Err != nil {
		return fmt.Errorf("inhibit call failed: %w", call.Err)
	}

	var cookie uint32
	if err := call.Store(&cookie); err != nil {
		return fmt.Errorf("failed to read inhibit cookie: %w", err)
	}

	d.cookie = cookie
	d.held = true
	return nil
}

func (d *DBusLocker) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.held {
		return nil
	}
	d.held = false

	if d.conn == nil || !d.conn.Connected() {
		return nil
	}

	obj := d.conn.Object(screenSaverService, dbus.ObjectPath(screenSaverPath))
	if call := obj.Call(screenSaverUnInhibit, 0, d.cookie); call.Err != nil {
		return fmt.Errorf("uninhibit call failed: %w", call.Err)
	}
	return nil
}

func (d *DBusLocker) Held() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.held {
		return false
	}
	if d.conn == nil || !d.conn.Connected() {
		// connection dropped, cookie is gone with it
		d.held = false
		return false
	}
	return true
}
