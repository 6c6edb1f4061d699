// Package localaddr finds the address under which this machine
// can be reached by its neighbours on the local network.
package localaddr // import "blitznote.com/src/http.drop/localaddr"

import (
	"net"

	"github.com/jackpal/gateway"
	"github.com/pkg/errors"
)

// ErrNoAddress is returned if no interface carries a usable IPv4 address.
var ErrNoAddress = errors.New("no local IPv4 address found")

// Interface is the subset of net.Interface needed here.
type Interface struct {
	Name  string
	Up    bool
	Addrs []net.Addr
}

// Overridden in tests.
var (
	discoverGateway = gateway.DiscoverGateway
	listInterfaces  = systemInterfaces
)

// Discover returns the IPv4 address of the interface which leads to the default gateway.
// Without a gateway, the first global unicast IPv4 address is used.
func Discover() (net.IP, error) {
	ifaces, err := listInterfaces()
	if err != nil {
		return nil, errors.Wrap(err, "list interfaces")
	}
	gw, _ := discoverGateway() // no gateway is fine on an isolated LAN
	return Pick(ifaces, gw)
}

// Pick selects an address from 'ifaces', preferring the one in the same subnet as 'gw'.
// 'gw' can be nil.
func Pick(ifaces []Interface, gw net.IP) (net.IP, error) {
	var first net.IP
	for _, iface := range ifaces {
		if !iface.Up {
			continue
		}
		for _, addr := range iface.Addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil || ip4.IsLoopback() || !ip4.IsGlobalUnicast() {
				continue
			}
			if gw != nil && ipnet.Contains(gw) {
				return ip4, nil
			}
			if first == nil {
				first = ip4
			}
		}
	}
	if first == nil {
		return nil, ErrNoAddress
	}
	return first, nil
}

func systemInterfaces() ([]Interface, error) {
	sys, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	ifaces := make([]Interface, 0, len(sys))
	for _, iface := range sys {
		addrs, err := iface.Addrs()
		if err != nil { // one broken card shouldn't hide the others
			continue
		}
		ifaces = append(ifaces, Interface{
			Name:  iface.Name,
			Up:    iface.Flags&net.FlagUp != 0,
			Addrs: addrs,
		})
	}
	return ifaces, nil
}
