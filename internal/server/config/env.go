package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddress     = "PLACERATE_HTTP_ADDRESS"
	EnvDatabaseDSN     = "PLACERATE_DATABASE_DSN"
	EnvSecretKey       = "PLACERATE_SECRET_KEY"
	EnvAccessTokenTTL  = "PLACERATE_ACCESS_TOKEN_TTL"
	EnvRefreshTokenTTL = "PLACERATE_REFRESH_TOKEN_TTL"
	EnvBcryptCost      = "PLACERATE_BCRYPT_COST"
	EnvCORSOrigins     = "PLACERATE_CORS_ORIGINS"
	EnvS3RootUser      = "PLACERATE_S3_ROOT_USER"
	EnvS3RootPassword  = "PLACERATE_S3_ROOT_PASSWORD"
	EnvS3Bucket        = "PLACERATE_S3_BUCKET"
	EnvS3Region        = "PLACERATE_S3_REGION"
	EnvS3BaseEndpoint  = "PLACERATE_S3_BASE_ENDPOINT"
)

// dotenvFiles are loaded, if present, before the environment is read.
// Variables already set in the process environment win over the files.
var dotenvFiles = []string{".env"}

// parseEnv overlays values from the environment. Durations use Go syntax
// ("15m"); malformed numbers or durations panic like a broken JSON file.
func parseEnv(config *Config) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				panic(err)
			}
		}
	}

	envString(&config.EndpointAddrHTTP, EnvHTTPAddress)
	envString(&config.DatabaseDSN, EnvDatabaseDSN)
	envString(&config.SecretKey, EnvSecretKey)
	envDuration(&config.AccessTokenValidityDuration, EnvAccessTokenTTL)
	envDuration(&config.RefreshTokenValidityDuration, EnvRefreshTokenTTL)
	envInt(&config.BcryptCost, EnvBcryptCost)
	envString(&config.CORSOrigins, EnvCORSOrigins)
	envString(&config.S3RootUser, EnvS3RootUser)
	envString(&config.S3RootPassword, EnvS3RootPassword)
	envString(&config.S3Bucket, EnvS3Bucket)
	envString(&config.S3Region, EnvS3Region)
	envString(&config.S3BaseEndpoint, EnvS3BaseEndpoint)
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
