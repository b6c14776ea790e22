package utils

import "net"

// CIDRRange returns the first and last address of a network.
func CIDRRange(cidr *net.IPNet) (net.IP, net.IP) {
	if cidr == nil {
		return nil, nil
	}
	start := cidr.IP.Mask(cidr.Mask)
	end := make(net.IP, len(start))
	copy(end, start)
	for i := 0; i < len(cidr.Mask) && i < len(end); i++ {
		end[len(end)-len(cidr.Mask)+i] |= ^cidr.Mask[i]
	}
	return start, end
}

// CompareIPs orders two addresses bytewise, -1 / 0 / 1.
func CompareIPs(a, b net.IP) int {
	a = a.To16()
	b = b.To16()
	for i := 0; i < 16; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}
