package config

type Config struct {
	DatabaseURL string
	GeminiKey   string
	GeminiModel string
	JWTSecret   string
	Environment string
}
