package config

type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	Sessions   SessionConfig
	Revproxy   RevproxyConfig
	Monitoring MonitoringConfig
	DebugMode  bool
}

func (c *Config) Validate() error {
	err := c.Auth.Validate()
	if err != nil {
		return err
	}
	err = c.Revproxy.Validate()
	if err != nil {
		return err
	}
	return nil
}
