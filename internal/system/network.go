package system

import (
	"errors"
	"net"
	"strings"
)

// ErrNoAddress is returned when no usable interface address exists.
var ErrNoAddress = errors.New("no non-loopback IPv4 address")

// LocalIPv4 returns the first non-loopback IPv4 address of an interface
// that is up, preferring wireless interfaces (wl*).
func LocalIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	var names []string
	var addrs []net.Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		ifAddrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range ifAddrs {
			names = append(names, iface.Name)
			addrs = append(addrs, a)
		}
	}
	if ip := pickIPv4(names, addrs); ip != "" {
		return ip, nil
	}
	return "", ErrNoAddress
}

func pickIPv4(names []string, addrs []net.Addr) string {
	fallback := ""
	for i, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		ip4 := ip.To4()
		if ip4 == nil || ip4.IsLoopback() || ip4.IsLinkLocalUnicast() {
			continue
		}
		if strings.HasPrefix(names[i], "wl") {
			return ip4.String()
		}
		if fallback == "" {
			fallback = ip4.String()
		}
	}
	return fallback
}

// ControlURL builds the http URL for a listen address such as ":8080",
// substituting host when the address has no host part.
func ControlURL(listenAddr, host string) string {
	h, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return ""
	}
	if h == "" || h == "0.0.0.0" || h == "::" {
		h = host
	}
	if h == "" {
		h = "127.0.0.1"
	}
	if port == "80" {
		return "http://" + h + "/"
	}
	return "http://" + net.JoinHostPort(h, port) + "/"
}
