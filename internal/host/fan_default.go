//go:build !linux

package host

// Fan sensors are only read from hwmon on linux.
func (c *Collector) sampleFanPercent() (*float64, error) {
	return nil, nil
}
