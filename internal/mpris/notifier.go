package mpris

import (
	"github.com/godbus/dbus/v5"
)

// Bus is the slice of the session-bus transport the adapter needs. It is
// satisfied by *dbus.Conn and by fakes in tests.
type Bus interface {
	Export(v any, path dbus.ObjectPath, iface string) error
	Emit(path dbus.ObjectPath, name string, values ...any) error
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
}

// Notifier emits change signals, suppressing any property whose value equals
// the last one published for it. One Publish call produces at most one
// batched PropertiesChanged signal for its interface.
type Notifier struct {
	bus  Bus
	path dbus.ObjectPath
	last map[string]map[string]Value
}

// NewNotifier creates a notifier with an empty published-value cache.
func NewNotifier(bus Bus, path dbus.ObjectPath) *Notifier {
	return &Notifier{
		bus:  bus,
		path: path,
		last: make(map[string]map[string]Value),
	}
}

// Publish diffs props against the last published values for iface and emits
// a single PropertiesChanged signal carrying only the properties that
// actually differ. Equal fragments produce no signal at all.
func (n *Notifier) Publish(iface string, props map[string]Value) error {
	cache := n.last[iface]
	if cache == nil {
		cache = make(map[string]Value)
		n.last[iface] = cache
	}

	changed := make(map[string]dbus.Variant)
	for name, v := range props {
		if prev, ok := cache[name]; ok && prev.Equal(v) {
			continue
		}
		cache[name] = v
		changed[name] = v.Variant()
	}
	if len(changed) == 0 {
		return nil
	}

	return n.bus.Emit(n.path, propertiesInterface+".PropertiesChanged",
		iface, changed, []string{})
}

// Seeked announces the true playback position. It is a distinct channel from
// Publish: consumers treat "told of true position" differently from "told a
// property changed".
func (n *Notifier) Seeked(positionMicros int64) error {
	return n.bus.Emit(n.path, playerInterface+".Seeked", positionMicros)
}
