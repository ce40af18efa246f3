// Package config handles projection configuration loading and management.
package config

// Config holds all projection settings.
type Config struct {
	Projection ProjectionConfig `yaml:"projection"`
	Dump       DumpConfig       `yaml:"dump"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ProjectionConfig holds the settings one Build pass consumes.
type ProjectionConfig struct {
	// Time is the stage time attributes are sampled at.
	Time float64 `yaml:"time"`
	// SmoothNormals averages computed normals across shared points.
	SmoothNormals bool `yaml:"smooth_normals"`
	// Scale converts stage units to renderer units.
	Scale float32 `yaml:"scale"`
}

// DumpConfig holds host-side scene dump settings.
type DumpConfig struct {
	// Buffers prints per-mesh vertex buffer contents, not just counts.
	Buffers bool `yaml:"buffers"`
	// MaxNodes truncates the node listing. Zero means unlimited.
	MaxNodes int `yaml:"max_nodes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Projection: ProjectionConfig{
			Time:          0,
			SmoothNormals: false,
			Scale:         1,
		},
		Dump: DumpConfig{
			Buffers:  false,
			MaxNodes: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
