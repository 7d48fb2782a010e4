package config

// HTTPConfig configures the availability API server.
type HTTPConfig struct {
	Address string `json:"address"`
	// Token, when set, must be presented as "Authorization: Bearer <token>".
	Token string `json:"token"`
	// ReadTimeoutSeconds bounds the time spent reading a request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
}

// SetDefaults applies the listen address and timeouts.
func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 10
	}
}
