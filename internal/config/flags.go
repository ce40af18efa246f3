package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagTime   = flag.Float64("time", 0, "Stage time to sample at")
	flagScale  = flag.Float64("scale", 0, "Stage-to-renderer unit scale")
	flagSmooth = flag.Bool("smooth", false, "Smooth computed normals across shared points")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTime != 0 {
		cfg.Projection.Time = *flagTime
	}
	if *flagScale > 0 {
		cfg.Projection.Scale = float32(*flagScale)
	}
	if *flagSmooth {
		cfg.Projection.SmoothNormals = true
	}
}
