package mpris

import (
	"github.com/godbus/dbus/v5"

	"github.com/testeddoughnut/pithos/internal/player"
)

// fakeHost is a scriptable Host for adapter tests.
type fakeHost struct {
	song    *player.Song
	playing bool
	waiting bool
	pos     int64
	posOK   bool
	dur     int64
	durOK   bool
	volume  float64

	calls []string
}

func (h *fakeHost) CurrentSong() *player.Song     { return h.song }
func (h *fakeHost) Playing() bool                 { return h.playing }
func (h *fakeHost) WaitingForPlaylist() bool      { return h.waiting }
func (h *fakeHost) QueryPosition() (int64, bool)  { return h.pos, h.posOK }
func (h *fakeHost) QueryDuration() (int64, bool)  { return h.dur, h.durOK }
func (h *fakeHost) NextSong()                     { h.calls = append(h.calls, "next") }
func (h *fakeHost) PlayPause()                    { h.calls = append(h.calls, "playpause") }
func (h *fakeHost) Play()                         { h.calls = append(h.calls, "play") }
func (h *fakeHost) Pause()                        { h.calls = append(h.calls, "pause") }
func (h *fakeHost) BringToTop()                   { h.calls = append(h.calls, "raise") }
func (h *fakeHost) Quit()                         { h.calls = append(h.calls, "quit") }
func (h *fakeHost) Volume() float64               { return h.volume }
func (h *fakeHost) SetVolume(v float64) {
	h.volume = v
	h.calls = append(h.calls, "setvolume")
}

type emission struct {
	path   dbus.ObjectPath
	name   string
	values []any
}

// fakeBus records everything the adapter does to the transport.
type fakeBus struct {
	emitted   []emission
	exported  map[string][]string // iface -> paths
	owned     []string
	released  []string
	nameReply dbus.RequestNameReply
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		exported:  make(map[string][]string),
		nameReply: dbus.RequestNameReplyPrimaryOwner,
	}
}

func (b *fakeBus) Export(v any, path dbus.ObjectPath, iface string) error {
	b.exported[iface] = append(b.exported[iface], string(path))
	return nil
}

func (b *fakeBus) Emit(path dbus.ObjectPath, name string, values ...any) error {
	b.emitted = append(b.emitted, emission{path: path, name: name, values: values})
	return nil
}

func (b *fakeBus) RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error) {
	b.owned = append(b.owned, name)
	return b.nameReply, nil
}

func (b *fakeBus) ReleaseName(name string) (dbus.ReleaseNameReply, error) {
	b.released = append(b.released, name)
	return dbus.ReleaseNameReplyReleased, nil
}

// changedProps unpacks the changed-property map from a PropertiesChanged
// emission.
func changedProps(em emission) map[string]dbus.Variant {
	return em.values[1].(map[string]dbus.Variant)
}
