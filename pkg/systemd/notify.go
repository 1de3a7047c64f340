// Package systemd reports service state to systemd over sd_notify.
//
// Every function is a no-op (returning false, nil) when the process is not
// started by systemd with NOTIFY_SOCKET set.
package systemd

import (
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier sends sd_notify states. The zero value uses daemon.SdNotify.
type Notifier struct {
	send func(unsetEnvironment bool, state string) (bool, error)
}

func (n Notifier) notify(state string) (bool, error) {
	send := n.send
	if send == nil {
		send = daemon.SdNotify
	}
	return send(false, state)
}

// Ready tells systemd startup finished (Type=notify units).
func (n Notifier) Ready() (bool, error) { return n.notify(daemon.SdNotifyReady) }

// Stopping tells systemd the service is shutting down.
func (n Notifier) Stopping() (bool, error) { return n.notify(daemon.SdNotifyStopping) }

// Watchdog pings the service watchdog.
func (n Notifier) Watchdog() (bool, error) { return n.notify(daemon.SdNotifyWatchdog) }

// WatchdogInterval returns WatchdogSec for this unit, or 0 when disabled.
func WatchdogInterval() time.Duration {
	d, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return 0
	}
	return d
}
