package reqlog

import (
	"bytes"
	"net/netip"
)

var v6MappedPrefix = []byte("::ffff:")

// composeRemote renders the compound remote field: the socket address, and
// when a forwarding header was present, a slash followed by its escaped
// value. A nil fwd means the header was absent and the address is returned
// unchanged.
func composeRemote(remoteAddr string, fwd []byte) string {
	addr := unmapRemote(remoteAddr)
	if fwd == nil {
		return addr
	}
	// Proxies on dual-stack hosts tend to report IPv4 clients as
	// ::ffff:a.b.c.d; keep the familiar dotted form.
	return addr + "/" + Token(bytes.TrimPrefix(fwd, v6MappedPrefix))
}

// unmapRemote rewrites an IPv4-mapped IPv6 socket address ([::ffff:a.b.c.d]:p)
// as its dotted-quad form. Addresses that do not parse are passed through.
func unmapRemote(remoteAddr string) string {
	ap, err := netip.ParseAddrPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	if a := ap.Addr(); a.Is4In6() {
		return netip.AddrPortFrom(a.Unmap(), ap.Port()).String()
	}
	return remoteAddr
}
