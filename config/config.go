package config

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string
	ConfirmBase  string // base URL used in emailed confirmation links
}

// GetBearerToken returns the BearerToken from the config
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}

// GetConfirmBase returns the base URL for appointment confirmation links
func (c *AppConfig) GetConfirmBase() string {
	return c.ConfirmBase
}
