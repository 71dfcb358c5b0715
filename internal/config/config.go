package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	// DBDSN empty selects the flat-file backend under DataDir.
	DBDSN   string
	DataDir string

	JWTSecret     string
	JWTExpiresMin int

	UPIID       string
	UPIPayee    string
	AdminSecret string

	// VerifyPayments = manual mode: attested orders queue for an operator
	// instead of publishing immediately.
	VerifyPayments bool

	TemplatesDir string
	RedisAddr    string

	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func Load() Config {
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "10080"))
	verify, _ := strconv.ParseBool(get("VERIFY_PAYMENTS", "false"))
	return Config{
		AppPort:         get("APP_PORT", "8080"),
		DBDSN:           get("DB_DSN", ""),
		DataDir:         get("DATA_DIR", "./data"),
		JWTSecret:       must("JWT_SECRET"),
		JWTExpiresMin:   expires,
		UPIID:           must("UPI_ID"),
		UPIPayee:        get("UPI_PAYEE_NAME", "ValentineGift"),
		AdminSecret:     must("ADMIN_SECRET"),
		VerifyPayments:  verify,
		TemplatesDir:    get("TEMPLATES_DIR", "./templates"),
		RedisAddr:       get("REDIS_ADDR", ""),
		GoogleClientID:  get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:    get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:  get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL: get("FRONTEND_BASE_URL", "http://localhost:3000"),
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
