package host

import (
	"net"
	"time"
)

// Probe checks connectivity by dialing the given targets in order, stopping
// at the first one that answers. Both failing means offline; no targets to
// try means the result is unknown and stays nil.
func Probe(targets []string, timeout time.Duration) *bool {
	if len(targets) == 0 {
		return nil
	}
	for _, target := range targets {
		conn, err := net.DialTimeout("tcp", target, timeout)
		if err == nil {
			conn.Close()
			v := true
			return &v
		}
	}
	v := false
	return &v
}
