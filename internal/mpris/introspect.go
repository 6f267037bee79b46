package mpris

import (
	"encoding/xml"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// propertiesIntrospectData describes org.freedesktop.DBus.Properties, which
// the adapter implements by hand rather than through a generic property
// export.
var propertiesIntrospectData = introspect.Interface{
	Name: propertiesInterface,
	Methods: []introspect.Method{
		{Name: "Get", Args: []introspect.Arg{
			{Name: "interface_name", Type: "s", Direction: "in"},
			{Name: "property_name", Type: "s", Direction: "in"},
			{Name: "value", Type: "v", Direction: "out"},
		}},
		{Name: "Set", Args: []introspect.Arg{
			{Name: "interface_name", Type: "s", Direction: "in"},
			{Name: "property_name", Type: "s", Direction: "in"},
			{Name: "value", Type: "v", Direction: "in"},
		}},
		{Name: "GetAll", Args: []introspect.Arg{
			{Name: "interface_name", Type: "s", Direction: "in"},
			{Name: "properties", Type: "a{sv}", Direction: "out"},
		}},
	},
	Signals: []introspect.Signal{
		{Name: "PropertiesChanged", Args: []introspect.Arg{
			{Name: "interface_name", Type: "s"},
			{Name: "changed_properties", Type: "a{sv}"},
			{Name: "invalidated_properties", Type: "as"},
		}},
	},
}

var rootIntrospectData = introspect.Interface{
	Name: rootInterface,
	Methods: []introspect.Method{
		{Name: "Raise"},
		{Name: "Quit"},
	},
}

var playerIntrospectData = introspect.Interface{
	Name: playerInterface,
	Methods: []introspect.Method{
		{Name: "Next"},
		{Name: "Previous"},
		{Name: "PlayPause"},
		{Name: "Play"},
		{Name: "Pause"},
		{Name: "Stop"},
		{Name: "SetPosition", Args: []introspect.Arg{
			{Name: "TrackId", Type: "o", Direction: "in"},
			{Name: "Position", Type: "x", Direction: "in"},
		}},
	},
	Signals: []introspect.Signal{
		{Name: "Seeked", Args: []introspect.Arg{
			{Name: "Position", Type: "x"},
		}},
	},
}

// Introspect implements org.freedesktop.DBus.Introspectable. The static
// self-description is augmented with one property descriptor per entry of
// the live property tables, so bus-side tooling discovers exactly the
// properties GetAll would return, with matching wire types. Types come from
// the values' own tags; the builder and this document cannot disagree.
func (a *Adapter) Introspect() (string, *dbus.Error) {
	a.mu.Lock()
	node := &introspect.Node{
		Name: string(objectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			propertiesIntrospectData,
			withProperties(rootIntrospectData, a.builder.RootProperties()),
			withProperties(playerIntrospectData, a.builder.PlayerProperties(a.currentMetadataLocked())),
		},
	}
	a.mu.Unlock()

	out, err := xml.Marshal(node)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return strings.TrimSpace(introspect.IntrospectDeclarationString) + string(out), nil
}

// withProperties copies iface and appends a descriptor per table entry.
// Volume is the single read-write property; everything else is read-only.
func withProperties(iface introspect.Interface, table map[string]Value) introspect.Interface {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]introspect.Property, 0, len(names))
	for _, name := range names {
		access := "read"
		if name == "Volume" {
			access = "readwrite"
		}
		props = append(props, introspect.Property{
			Name:   name,
			Type:   table[name].Signature(),
			Access: access,
		})
	}
	iface.Properties = props
	return iface
}
