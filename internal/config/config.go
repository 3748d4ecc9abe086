package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	// The initial admin is the platform's only super admin.
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"superadmin"`
		Password string `env:"PASSWORD,required"`
		Email    string `env:"EMAIL,required"`
		Phone    string `env:"PHONE" envDefault:"0796335209"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"336"` // hours, 14 days
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD" envDefault:"survey@seed2024"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
	Email struct {
		UserDomain   string `env:"USER_DOMAIN" envDefault:"example.com"`
		TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"./templates"`
		Workers      int    `env:"WORKERS" envDefault:"2"`
		SMTP         struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST" envDefault:"localhost"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	OTP struct {
		Expiration int `env:"EXPIRATION" envDefault:"900"` // seconds
	} `envPrefix:"OTP_"`
	Reward struct {
		RewardDeductionRate     float64 `env:"DEDUCTION_RATE" envDefault:"0.20"`
		WithdrawalDeductionRate float64 `env:"WITHDRAWAL_DEDUCTION_RATE" envDefault:"0.15"`
		MinimumWithdrawal       int64   `env:"MINIMUM_WITHDRAWAL" envDefault:"2000"`
		DailySurveyLimit        int     `env:"DAILY_SURVEY_LIMIT" envDefault:"3"`
		RegistrationFee         int64   `env:"REGISTRATION_FEE" envDefault:"49"`
	} `envPrefix:"REWARD_"`
	CORS struct {
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
		MaxAge         int      `env:"MAX_AGE" envDefault:"300"`
	} `envPrefix:"CORS_"`
	RateLimit struct {
		AuthRequests int `env:"AUTH_REQUESTS" envDefault:"20"`
		AuthWindow   int `env:"AUTH_WINDOW" envDefault:"60"` // seconds
	} `envPrefix:"RATE_LIMIT_"`
	Chat struct {
		HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"200"`
	} `envPrefix:"CHAT_"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only the first error keeps the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
