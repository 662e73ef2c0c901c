//go:build linux

package host

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const hwmonRoot = "/sys/class/hwmon"

// sampleFanPercent scans hwmon for a fan reading. A tachometer input wins
// over a PWM duty cycle; with neither present the fan metric is simply
// absent, not an error.
func (c *Collector) sampleFanPercent() (*float64, error) {
	entries, err := os.ReadDir(hwmonRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		base := hwmonRoot + "/" + entry.Name()
		for i := 1; i <= 4; i++ {
			rpm, err := readIntFromFile(fmt.Sprintf("%s/fan%d_input", base, i))
			if err != nil || rpm <= 0 {
				continue
			}
			v := fanPercentFromRPM(float64(rpm), c.FanMaxRPM)
			return &v, nil
		}
	}

	for _, entry := range entries {
		base := hwmonRoot + "/" + entry.Name()
		pwm, err := readIntFromFile(base + "/pwm1")
		if err != nil || pwm < 0 {
			continue
		}
		v := fanPercentFromPWM(float64(pwm))
		return &v, nil
	}

	return nil, nil
}

func readIntFromFile(path string) (int64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseInt(s, 10, 64)
}
