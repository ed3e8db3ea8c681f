package config

// ServerConfig holds listen addresses of the HTTP surfaces.
type ServerConfig struct {
	// Address of the cloud API, e.g. ":8080".
	Address string `json:"address"`
	// PrometheusAddress exposes /metrics when set.
	PrometheusAddress string `json:"prometheus_address"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
}
