package launcher

import "strings"

// LocalBaseURL is the fixed loopback address of a locally hosted sign
// server.
const LocalBaseURL = "http://127.0.0.1:8080"

// HostKind selects between the bundled local server and an operator URL.
type HostKind int

const (
	HostLocal HostKind = iota
	HostCustom
)

// Host resolves the base URL that requests are issued against. The zero
// value is the local server.
type Host struct {
	Kind   HostKind
	Custom string
}

// BaseURL returns the address request paths are appended to. For a
// custom host this is the operator string verbatim.
func (h Host) BaseURL() string {
	if h.Kind == HostCustom {
		return h.Custom
	}
	return LocalBaseURL
}

// Label returns the display name of the selection.
func (h Host) Label() string {
	if h.Kind == HostCustom {
		return "Custom"
	}
	return "Local Server"
}

// Value returns the settings representation of the host, the inverse of
// ParseHost.
func (h Host) Value() string {
	if h.Kind == HostCustom {
		return h.Custom
	}
	return "local"
}

// ParseHost interprets a settings or flag value. "local" and the empty
// string select the loopback server, anything else is used as a custom
// base URL.
func ParseHost(s string) Host {
	if s == "" || strings.EqualFold(s, "local") {
		return Host{Kind: HostLocal}
	}
	return Host{Kind: HostCustom, Custom: s}
}
