package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath = "."
	envPrefix   = "FITHUB_"

	placeholderSecret = "change-me-in-production"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port        int      `json:"port" yaml:"port"`
		BaseURL     string   `json:"baseUrl" yaml:"baseUrl"`
		CORSOrigins []string `json:"corsOrigins" yaml:"corsOrigins"`

		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres PostgresConfig `json:"postgres" yaml:"postgres"`

	Session SessionConfig `json:"session" yaml:"session"`

	JWT struct {
		Secret string        `json:"secret" yaml:"secret"`
		TTL    time.Duration `json:"ttl" yaml:"ttl"`
	} `json:"jwt" yaml:"jwt"`

	Auth struct {
		BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`
	} `json:"auth" yaml:"auth"`

	Stripe StripeConfig `json:"stripe" yaml:"stripe"`

	Payments struct {
		// IdempotentWebhooks makes the order webhook skip checkout sessions
		// that already produced an Order. Off reproduces a blind create per delivery.
		IdempotentWebhooks bool `json:"idempotentWebhooks" yaml:"idempotentWebhooks"`
	} `json:"payments" yaml:"payments"`

	Mail MailConfig `json:"mail" yaml:"mail"`

	Storage struct {
		BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
	} `json:"storage" yaml:"storage"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

type PostgresConfig struct {
	DSN             string        `json:"dsn" yaml:"dsn"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

type SessionConfig struct {
	Name   string `json:"name" yaml:"name"`
	Secret string `json:"secret" yaml:"secret"`
	MaxAge int    `json:"maxAge" yaml:"maxAge"`
	Secure bool   `json:"secure" yaml:"secure"`
}

type StripeConfig struct {
	SecretKey                 string `json:"secretKey" yaml:"secretKey"`
	OrderWebhookSecret        string `json:"orderWebhookSecret" yaml:"orderWebhookSecret"`
	SubscriptionWebhookSecret string `json:"subscriptionWebhookSecret" yaml:"subscriptionWebhookSecret"`
	Currency                  string `json:"currency" yaml:"currency"`
}

type MailConfig struct {
	Host       string `json:"host" yaml:"host"`
	Port       int    `json:"port" yaml:"port"`
	Username   string `json:"username" yaml:"username"`
	Password   string `json:"password" yaml:"password"`
	From       string `json:"from" yaml:"from"`
	FromName   string `json:"fromName" yaml:"fromName"`
	UseSSL     bool   `json:"useSsl" yaml:"useSsl"`
	RequireTLS bool   `json:"requireTls" yaml:"requireTls"`
	AppName    string `json:"appName" yaml:"appName"`
}

// LoadWithEnv reads <currEnv>.yaml from the first search path that has it and
// overlays FITHUB_* environment variables on top.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			if filepath.IsAbs(path) {
				searchPaths = append(searchPaths, path)
				continue
			}
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			break
		}
	}
	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(strings.TrimPrefix(k, envPrefix), existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	// .env is optional; real deployments inject variables directly.
	_ = godotenv.Load()

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if cfg.Stripe.Currency == "" {
		cfg.Stripe.Currency = "eur"
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 10
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = time.Hour
	}

	if err := cfg.CheckSecrets(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CheckSecrets refuses empty or placeholder signing secrets outside the
// local and test environments.
func (c *Config) CheckSecrets() error {
	switch c.Env.Env {
	case "local", "test":
		return nil
	}

	var weak []string
	for key, value := range map[string]string{
		"session.secret": c.Session.Secret,
		"jwt.secret":     c.JWT.Secret,
	} {
		if v := strings.TrimSpace(value); v == "" || v == placeholderSecret {
			weak = append(weak, key)
		}
	}
	if len(weak) == 0 {
		return nil
	}
	sort.Strings(weak)
	return errors.Errorf("env %q: %s must be set to a real secret (FITHUB_SESSION_SECRET, FITHUB_JWT_SECRET)",
		c.Env.Env, strings.Join(weak, ", "))
}

// canonicalizeEnvKey maps STRIPE_ORDERWEBHOOKSECRET onto the camelCase key
// path already present in the yaml (stripe.orderWebhookSecret).
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
