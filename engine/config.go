package engine

// Config defines the shared rendering settings of an Engine.
type Config struct {
	SampleRate float64
	BlockSize  int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults for real-time playback.
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		BlockSize:  1024,
	}
}

// WithSampleRate sets the rendering sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the rendering block size.
func WithBlockSize(blockSize int) Option {
	return func(cfg *Config) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}
