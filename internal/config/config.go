package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv" // godotenv loads a .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The two token secrets are distinct typed
// values with independent expirations; that separation is a hard
// requirement, not an implementation detail.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret         string // secret used to sign access tokens
	JWTExpirationMin  int    // access token time-to-live in minutes
	RefreshSecret     string // secret used to sign refresh tokens
	RefreshExpMin     int    // refresh token time-to-live in minutes
	BcryptCost        int    // bcrypt cost for password hashing

	SeedRoles bool // seed the role catalog at startup when true

	AWSRegion          string // S3 region for profile picture storage
	AWSAccessKeyID     string // S3 access key
	AWSSecretAccessKey string // S3 secret key
	S3Bucket           string // S3 bucket name

	AppName     string // product name used in outbound mail
	MailAPIURL  string // HTTP endpoint of the email delivery API
	MailAPIKey  string // bearer key for the email delivery API
	MailFrom    string // From address for outbound mail
}

// Load reads configuration values from environment variables and returns
// a Config.  A .env file in the working directory is applied first when
// present.  Required variables are enforced by must(); missing values
// cause the process to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine; real env always wins

	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret:        must("JWT_SECRET"),
		JWTExpirationMin: mustInt("JWT_EXPIRATION_MIN"),
		RefreshSecret:    must("REFRESH_JWT_SECRET"),
		RefreshExpMin:    mustInt("REFRESH_JWT_EXPIRATION_MIN"),
		BcryptCost:       mustInt("BCRYPT_COST"),

		SeedRoles: os.Getenv("SEED_ROLES") == "true",

		AWSRegion:          os.Getenv("AWS_REGION"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Bucket:           os.Getenv("S3_BUCKET"),

		AppName:    getenvDefault("APP_NAME", "TaskHive"),
		MailAPIURL: os.Getenv("MAIL_API_URL"),
		MailAPIKey: os.Getenv("MAIL_API_KEY"),
		MailFrom:   os.Getenv("MAIL_FROM"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
