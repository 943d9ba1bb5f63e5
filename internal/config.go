package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	Host           string `env:"HOST,default=0.0.0.0"`
	Port           int    `env:"PORT,default=8080"`
	HealthPort     int    `env:"HEALTH_PORT,default=8090"`
	DebugPort      int    `env:"DEBUG_PORT,default=8081"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL,default=http://localhost:8080"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	AdminUsernames    string        `env:"ADMIN_USERNAMES"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	PongWait             time.Duration `env:"PONG_WAIT,default=60s"`
	WriteWait            time.Duration `env:"WRITE_WAIT,default=10s"`
	MaxFrameSize         int           `env:"MAX_FRAME_SIZE,default=65536"`

	StoreRetries    int           `env:"STORE_RETRIES,default=3"`
	StoreRetryDelay time.Duration `env:"STORE_RETRY_DELAY,default=50ms"`
	StoreTxnRetries int           `env:"STORE_TXN_RETRIES,default=16"`

	AttachmentDir     string `env:"ATTACHMENT_DIR,default=./attachments"`
	MaxAttachmentSize int    `env:"MAX_ATTACHMENT_SIZE,default=10485760"`
	AttachmentTypes   string `env:"ATTACHMENT_TYPES"`

	AuditBufferSize int           `env:"AUDIT_BUFFER_SIZE,default=1024"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=15s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Validate catches values go-env accepts but the relay cannot run with.
func (c Config) Validate() error {
	switch {
	case c.ConnectionBufferSize <= 0:
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be positive, got %d", c.ConnectionBufferSize)
	case c.PongWait <= 0 || c.WriteWait <= 0:
		return fmt.Errorf("PONG_WAIT and WRITE_WAIT must be positive")
	case c.StoreRetries < 0 || c.StoreTxnRetries < 0:
		return fmt.Errorf("STORE_RETRIES and STORE_TXN_RETRIES cannot be negative")
	case c.MaxAttachmentSize <= 0:
		return fmt.Errorf("MAX_ATTACHMENT_SIZE must be positive, got %d", c.MaxAttachmentSize)
	case len(c.JWTSecret) < 16:
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

// PingPeriod must stay below PongWait so that a healthy peer always answers in time.
func (c Config) PingPeriod() time.Duration {
	return c.PongWait * 9 / 10
}

func (c Config) Admins() []string {
	var admins []string
	for _, name := range strings.Split(c.AdminUsernames, ",") {
		if name = strings.TrimSpace(name); name != "" {
			admins = append(admins, name)
		}
	}
	return admins
}
