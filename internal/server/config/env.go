package config

import "os"

// parseEnv overlays Config values from environment variables. Combined with a
// .env file loaded at startup this mirrors how the server is configured in
// container deployments.
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("AVATAR_STORAGE"); v != "" {
		config.AvatarStorage = v
	}
}
