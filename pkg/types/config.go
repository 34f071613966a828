package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Token signing
	JWTSecret    string `envconfig:"JWT_SECRET"`
	JWTExpirySec int    `envconfig:"JWT_EXPIRY_SEC" default:"86400"` // 24h

	// Session cookie fallback for browser clients
	CookieName string `envconfig:"SESSION_COOKIE_NAME" default:"session_token"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Claim document storage
	DocumentBucket   string `envconfig:"DOCUMENT_BUCKET" default:"claim-documents"`
	MaxDocumentBytes int64  `envconfig:"MAX_DOCUMENT_BYTES" default:"5242880"` // 5 MiB

	// Premium payments
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`
	PaymentCurrency string `envconfig:"PAYMENT_CURRENCY" default:"inr"`

	// Per-IP rate limiting on /api routes
	RateLimitPerMin uint `envconfig:"RATE_LIMIT_PER_MIN" default:"100"`
	RateLimitBurst  uint `envconfig:"RATE_LIMIT_BURST" default:"20"`
}
