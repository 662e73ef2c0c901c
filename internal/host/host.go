package host

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	pshost "github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

const defaultCPUInterval = 1 * time.Second

// Sample is one best-effort reading of the local host. Each field is
// independently nullable; an unreadable sensor leaves its field nil and
// never fails the other readings.
type Sample struct {
	CPUPercent   *float64
	RAMPercent   *float64
	TemperatureC *float64
	FanPercent   *float64
}

type Collector struct {
	// FanMaxRPM caps tachometer readings when normalizing to a percentage.
	FanMaxRPM float64
	// CPUInterval is how long the CPU reading blocks to average utilization.
	CPUInterval time.Duration
}

// Sample reads every metric it can. The returned error aggregates the
// readings that failed; the sample itself is still usable.
func (c *Collector) Sample() (Sample, error) {
	var s Sample
	var warnings []string

	interval := c.CPUInterval
	if interval <= 0 {
		interval = defaultCPUInterval
	}
	if percents, err := cpu.Percent(interval, false); err != nil {
		warnings = append(warnings, fmt.Sprintf("cpu: %v", err))
	} else if len(percents) > 0 {
		v := clampPercent(percents[0])
		s.CPUPercent = &v
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		warnings = append(warnings, fmt.Sprintf("memory: %v", err))
	} else if vm != nil {
		v := clampPercent(vm.UsedPercent)
		s.RAMPercent = &v
	}

	if temps, err := pshost.SensorsTemperatures(); err != nil {
		if !isTemperatureUnavailable(err) {
			warnings = append(warnings, fmt.Sprintf("temperature: %v", err))
		}
	} else {
		s.TemperatureC = pickTemperature(temps)
	}

	if fan, err := c.sampleFanPercent(); err != nil {
		warnings = append(warnings, fmt.Sprintf("fan: %v", err))
	} else {
		s.FanPercent = fan
	}

	if len(warnings) > 0 {
		return s, fmt.Errorf("%s", strings.Join(warnings, "; "))
	}
	return s, nil
}

// pickTemperature chooses the most CPU-like sensor from whatever the host
// exposes. Package-level sensors beat per-core ones.
func pickTemperature(temps []pshost.TemperatureStat) *float64 {
	var best *float64
	bestScore := -1
	bestTemp := -1.0

	for _, t := range temps {
		temp := t.Temperature
		if temp <= 0 || math.IsNaN(temp) || math.IsInf(temp, 0) {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(t.SensorKey))
		score := 0
		switch {
		case strings.Contains(key, "package"):
			score += 50
		case strings.Contains(key, "tctl") || strings.Contains(key, "tdie"):
			score += 40
		}
		if strings.Contains(key, "coretemp") || strings.Contains(key, "k10temp") {
			score += 20
		}
		if strings.Contains(key, "cpu") {
			score += 10
		}
		if strings.Contains(key, "core") {
			score += 5
		}

		if score > bestScore || (score == bestScore && temp > bestTemp) {
			v := temp
			best = &v
			bestScore = score
			bestTemp = temp
		}
	}

	return best
}

func isTemperatureUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not implemented") || strings.Contains(msg, "not supported")
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// fanPercentFromRPM normalizes a tachometer reading against the configured
// maximum, capping at 100.
func fanPercentFromRPM(rpm, maxRPM float64) float64 {
	if maxRPM <= 0 || rpm <= 0 {
		return 0
	}
	return clampPercent(rpm / maxRPM * 100)
}

// fanPercentFromPWM converts a 0..255 duty cycle to a percentage.
func fanPercentFromPWM(pwm float64) float64 {
	if pwm <= 0 {
		return 0
	}
	return clampPercent(pwm / 255 * 100)
}
