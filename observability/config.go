package observability

import "time"

// Config is the telemetry section of the application config.
type Config struct {
	// Endpoint is the OTLP HTTP endpoint host:port. Empty disables export.
	Endpoint string `mapstructure:"endpoint"`
	// Insecure disables TLS towards the endpoint.
	Insecure bool `mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
	// ServiceName is reported as service.name.
	ServiceName string `mapstructure:"service_name"`
	// Environment is reported as deployment.environment.
	Environment string `mapstructure:"environment"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "linepar"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Enabled reports whether an exporter endpoint is configured.
func (c *Config) Enabled() bool { return c.Endpoint != "" }

// TracerConfig derives the tracer settings.
func (c *Config) TracerConfig(serviceVersion string) *TracerConfig {
	return &TracerConfig{
		ServiceName:    c.ServiceName,
		ServiceVersion: serviceVersion,
		Environment:    c.Environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		SampleRate:     c.SampleRate,
	}
}

// MeterConfig derives the meter settings.
func (c *Config) MeterConfig(serviceVersion string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    c.ServiceName,
		ServiceVersion: serviceVersion,
		Environment:    c.Environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		Interval:       c.Interval,
	}
}
