package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/MDTrapaglia/status-page/internal/config"
	"github.com/MDTrapaglia/status-page/internal/device"
	"github.com/MDTrapaglia/status-page/internal/history"
	"github.com/MDTrapaglia/status-page/internal/host"
	httpserver "github.com/MDTrapaglia/status-page/internal/http"
	"github.com/MDTrapaglia/status-page/internal/market"
	"github.com/MDTrapaglia/status-page/internal/sampler"
)

func main() {
	app := &cli.App{
		Name:        "statuspage",
		Description: "always-on status dashboard sampling host and device metrics with long-retention history",
		Usage:       "run the status dashboard server",
		Version:     appVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{"CONFIG"},
				Usage:   "path to a yaml config file",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				EnvVars: []string{"PORT"},
				Value:   8080,
			},
			&cli.StringFlag{
				Name:    "data-dir",
				EnvVars: []string{"DATA_DIR"},
				Usage:   "directory for the history log and session state",
			},
			&cli.StringFlag{
				Name:    "device-url",
				EnvVars: []string{"DEVICE_URL"},
				Usage:   "device telemetry endpoint returning an uptime field",
			},
			&cli.DurationFlag{
				Name:    "sample-interval",
				EnvVars: []string{"SAMPLE_INTERVAL"},
				Usage:   "time between scheduled samples",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.Bool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	}
	log := logrus.StandardLogger()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if c.IsSet("device-url") {
		cfg.DeviceURL = c.String("device-url")
	}
	if c.IsSet("sample-interval") {
		cfg.SampleInterval = config.Duration(c.Duration("sample-interval"))
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	store := history.Open(history.Options{
		Path:         cfg.HistoryLogPath(),
		RecentWindow: cfg.RecentWindow.Std(),
		Retention:    cfg.Retention.Std(),
		Log:          log,
	})

	collector := &host.Collector{FanMaxRPM: cfg.FanMaxRPM}

	var deviceClient *device.Client
	var tracker *device.SessionTracker
	if cfg.DeviceURL != "" {
		deviceClient = device.NewClient(cfg.DeviceURL, cfg.DeviceTimeout.Std())
		tracker = device.NewSessionTracker(cfg.SessionStatePath(), log)
	}

	smp := sampler.New(sampler.Options{
		Store:  store,
		Source: collector,
		Probe: func() *bool {
			return host.Probe(cfg.ProbeTargets, cfg.ProbeTimeout.Std())
		},
		Device:        samplerDevice(deviceClient),
		Tracker:       tracker,
		Interval:      cfg.SampleInterval.Std(),
		DeviceTimeout: cfg.DeviceTimeout.Std(),
		Log:           log,
	})
	smp.Start(make(chan struct{}))

	srv := httpserver.New(httpserver.Options{
		Port:      cfg.Port,
		MaxPoints: cfg.APIMaxPoints,
		Store:     store,
		Seeder:    smp,
		Prices:    market.NewClient("", cfg.Coins, 0),
		Device:    serverDevice(deviceClient),
		Session:   serverSession(tracker),
		Log:       log,
	})
	srv.Serve()
	return nil
}

// A nil *device.Client must become a nil interface, not a typed nil.
func samplerDevice(c *device.Client) sampler.DeviceSource {
	if c == nil {
		return nil
	}
	return c
}

func serverDevice(c *device.Client) httpserver.DeviceSource {
	if c == nil {
		return nil
	}
	return c
}

func serverSession(t *device.SessionTracker) httpserver.SessionSource {
	if t == nil {
		return nil
	}
	return t
}

// appVersion prefers the module version stamped by `go install`, falling
// back to the vcs revision for plain `go build` binaries.
func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return "unknown"
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var rev string
	var modified bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if rev == "" {
		return "unknown"
	}
	if modified {
		return rev + " (modified)"
	}
	return rev
}
