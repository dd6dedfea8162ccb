package web

type Config struct {
	Enable         bool     `hcl:"enable"`
	Listen         string   `hcl:"listen"`
	AllowedOrigins []string `hcl:"allowed_origins"`
}

const DefaultListen = "127.0.0.1:8090"

func (c *Config) listen() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

func (c *Config) origins() []string {
	if len(c.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return c.AllowedOrigins
}

func (c *Config) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range c.origins() {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
