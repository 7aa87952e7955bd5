package gateway

import "time"

// Option applies a configuration option to the ModelGateway.
type Option func(*ModelGateway)

// WithTimeout bounds each completion call. Zero and negative values
// are ignored.
func WithTimeout(d time.Duration) Option {
	return func(g *ModelGateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *ModelGateway) {
		if t >= 0 {
			g.temperature = t
		}
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(g *ModelGateway) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}
