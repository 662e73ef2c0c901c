package host

import (
	"net"
	"testing"
	"time"

	pshost "github.com/shirou/gopsutil/v3/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanPercentFromRPM(t *testing.T) {
	assert.Equal(t, 50.0, fanPercentFromRPM(2500, 5000))
	assert.Equal(t, 100.0, fanPercentFromRPM(7000, 5000), "capped at max RPM")
	assert.Equal(t, 0.0, fanPercentFromRPM(0, 5000))
	assert.Equal(t, 0.0, fanPercentFromRPM(2500, 0), "no max configured")
}

func TestFanPercentFromPWM(t *testing.T) {
	assert.Equal(t, 100.0, fanPercentFromPWM(255))
	assert.InDelta(t, 50.0, fanPercentFromPWM(127.5), 0.01)
	assert.Equal(t, 0.0, fanPercentFromPWM(0))
}

func TestPickTemperaturePrefersPackageSensor(t *testing.T) {
	temps := []pshost.TemperatureStat{
		{SensorKey: "acpitz", Temperature: 30},
		{SensorKey: "coretemp_core_0", Temperature: 48},
		{SensorKey: "coretemp_package_id_0", Temperature: 52},
	}
	got := pickTemperature(temps)
	require.NotNil(t, got)
	assert.Equal(t, 52.0, *got)
}

func TestPickTemperatureSkipsBogusReadings(t *testing.T) {
	temps := []pshost.TemperatureStat{
		{SensorKey: "cpu_thermal", Temperature: -1},
		{SensorKey: "cpu_thermal", Temperature: 0},
	}
	assert.Nil(t, pickTemperature(temps))
	assert.Nil(t, pickTemperature(nil))
}

func TestProbeReachableTarget(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	got := Probe([]string{ln.Addr().String()}, time.Second)
	require.NotNil(t, got)
	assert.True(t, *got)
}

func TestProbeFallsBackToSecondTarget(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	// Grab a port with nothing listening on it.
	dead, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadAddr := dead.Addr().String()
	dead.Close()

	got := Probe([]string{deadAddr, ln.Addr().String()}, time.Second)
	require.NotNil(t, got)
	assert.True(t, *got)
}

func TestProbeAllUnreachable(t *testing.T) {
	dead, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadAddr := dead.Addr().String()
	dead.Close()

	got := Probe([]string{deadAddr}, 500*time.Millisecond)
	require.NotNil(t, got)
	assert.False(t, *got)
}

func TestProbeWithoutTargetsIsUnknown(t *testing.T) {
	assert.Nil(t, Probe(nil, time.Second))
}
