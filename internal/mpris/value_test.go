package mpris

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"
)

func TestValueSignatures(t *testing.T) {
	cases := []struct {
		value Value
		sig   string
	}{
		{String("x"), "s"},
		{Bool(true), "b"},
		{Double(1.5), "d"},
		{Int64(7), "x"},
		{StringList("a", "b"), "as"},
		{Path(dbus.ObjectPath("/a/b")), "o"},
		{Dict(map[string]Value{"k": String("v")}), "a{sv}"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.sig, tc.value.Signature())
	}
}

func TestValueBoolIsNotInteger(t *testing.T) {
	// The wire schema treats booleans and integers as distinct types; the
	// tags must never collapse them.
	require.NotEqual(t, Bool(true).Signature(), Int64(1).Signature())
	require.False(t, Bool(true).Equal(Int64(1)))
}

func TestValueEqualStructural(t *testing.T) {
	require.True(t, String("a").Equal(String("a")))
	require.False(t, String("a").Equal(String("b")))

	require.True(t, StringList("a", "b").Equal(StringList("a", "b")))
	require.False(t, StringList("a").Equal(StringList("a", "b")))

	d1 := Dict(map[string]Value{"title": String("X"), "rating": Int64(5)})
	d2 := Dict(map[string]Value{"rating": Int64(5), "title": String("X")})
	d3 := Dict(map[string]Value{"title": String("Y"), "rating": Int64(5)})
	require.True(t, d1.Equal(d2))
	require.False(t, d1.Equal(d3))
}

func TestValueVariantNestsDictEntries(t *testing.T) {
	d := Dict(map[string]Value{
		"xesam:title":   String("X"),
		"mpris:length":  Int64(1000),
		"mpris:trackid": Path(dbus.ObjectPath("/t/1")),
	})

	m, ok := d.Variant().Value().(map[string]dbus.Variant)
	require.True(t, ok)
	require.Equal(t, "X", m["xesam:title"].Value())
	require.Equal(t, int64(1000), m["mpris:length"].Value())
	require.Equal(t, dbus.ObjectPath("/t/1"), m["mpris:trackid"].Value())
}

func TestValueIsZero(t *testing.T) {
	var v Value
	require.True(t, v.IsZero())
	require.False(t, String("").IsZero())
}
