package mpris

import (
	"github.com/godbus/dbus/v5"

	"github.com/testeddoughnut/pithos/internal/apperrors"
)

// busError converts a taxonomy error into a D-Bus fault reply.
func busError(err *apperrors.AppError) *dbus.Error {
	return dbus.NewError(err.BusName(), []any{err.Message})
}

// propertyTableLocked returns the live property table for an interface.
func (a *Adapter) propertyTableLocked(iface string) (map[string]Value, *apperrors.AppError) {
	switch iface {
	case rootInterface:
		return a.builder.RootProperties(), nil
	case playerInterface:
		return a.builder.PlayerProperties(a.currentMetadataLocked()), nil
	default:
		return nil, apperrors.NewUnsupportedInterface(iface)
	}
}

// Get implements org.freedesktop.DBus.Properties.Get.
func (a *Adapter) Get(iface, property string) (dbus.Variant, *dbus.Error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	table, appErr := a.propertyTableLocked(iface)
	if appErr != nil {
		return dbus.Variant{}, busError(appErr)
	}
	v, ok := table[property]
	if !ok {
		return dbus.Variant{}, busError(apperrors.NewPropertyNotFound(property))
	}
	return v.Variant(), nil
}

// GetAll implements org.freedesktop.DBus.Properties.GetAll.
func (a *Adapter) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	table, appErr := a.propertyTableLocked(iface)
	if appErr != nil {
		return nil, busError(appErr)
	}
	return variantTable(table), nil
}

// Set implements org.freedesktop.DBus.Properties.Set. Volume is the only
// writable property; its protocol-scale value is cubed back to the host's
// linear scale. Writes to the root interface are accepted as no-ops because
// the contract requires its properties to exist, while unknown interfaces
// fail.
func (a *Adapter) Set(iface, property string, value dbus.Variant) *dbus.Error {
	switch iface {
	case rootInterface:
		return nil
	case playerInterface:
		if property == "Volume" {
			f, ok := value.Value().(float64)
			if !ok {
				return busError(apperrors.NewValidationError("Volume expects a double value.", nil))
			}
			// SetVolume may emit a host event that re-enters the adapter,
			// so it must be called without holding the lock.
			a.host.SetVolume(HostVolume(f))
			return nil
		}
		a.mu.Lock()
		table := a.builder.PlayerProperties(a.currentMetadataLocked())
		a.mu.Unlock()
		if _, ok := table[property]; ok {
			return busError(apperrors.NewReadOnlyProperty(property))
		}
		return busError(apperrors.NewPropertyNotFound(property))
	default:
		return busError(apperrors.NewUnsupportedInterface(iface))
	}
}

// Raise implements org.mpris.MediaPlayer2.Raise.
func (a *Adapter) Raise() *dbus.Error {
	a.host.BringToTop()
	return nil
}

// Quit implements org.mpris.MediaPlayer2.Quit.
func (a *Adapter) Quit() *dbus.Error {
	a.host.Quit()
	return nil
}

// Next skips to the next track unless the host is already fetching one; a
// skip racing a pending playlist fetch would queue a duplicate.
func (a *Adapter) Next() *dbus.Error {
	if !a.host.WaitingForPlaylist() {
		a.host.NextSong()
	}
	return nil
}

// Previous is a declared no-op: the host domain has no backward navigation.
func (a *Adapter) Previous() *dbus.Error {
	return nil
}

// PlayPause toggles playback when a track is loaded.
func (a *Adapter) PlayPause() *dbus.Error {
	if a.host.CurrentSong() != nil {
		a.host.PlayPause()
	}
	return nil
}

// Play starts playback when a track is loaded.
func (a *Adapter) Play() *dbus.Error {
	if a.host.CurrentSong() != nil {
		a.host.Play()
	}
	return nil
}

// Pause pauses playback when a track is loaded.
func (a *Adapter) Pause() *dbus.Error {
	if a.host.CurrentSong() != nil {
		a.host.Pause()
	}
	return nil
}

// Stop maps to pause: the host has no stop state distinct from pause.
func (a *Adapter) Stop() *dbus.Error {
	a.host.Pause()
	return nil
}

// SetPosition accepts the call but never seeks; the host cannot perform
// arbitrary seeks. Instead it answers with a Seeked signal carrying the
// current, unchanged position so the caller's position display stays
// consistent. This is a protocol-compatibility shim, not a bug.
func (a *Adapter) SetPosition(trackID dbus.ObjectPath, position int64) *dbus.Error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.notifier.Seeked(a.builder.PositionMicros()); err != nil {
		a.logger.Printf("MPRIS: seeked signal failed: %v", err)
	}
	return nil
}
