package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Gateway centraliza a configuração do gateway carregada do ambiente.
type Gateway struct {
	Port         int
	Env          string
	JWTSecret    string
	WorkersURL   string
	BenefitsURL  string
	PayrollURL   string
	DocumentsURL string
	RedisURL     string
	AllowOrigins []string
	RateLimit    RateLimitConfig
	ProxyTimeout time.Duration
	PayrollRoles []string
}

// Service centraliza a configuração comum aos serviços de domínio.
type Service struct {
	Port          int
	Env           string
	DBDSN         string
	WorkersURL    string
	BenefitsURL   string
	LookupTimeout time.Duration
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// IsProduction indica se respostas devem omitir detalhes de depuração.
func (g *Gateway) IsProduction() bool {
	return g.Env == "production"
}

// LoadGateway carrega variáveis de ambiente do gateway e aplica defaults seguros.
func LoadGateway() (*Gateway, error) {
	_ = godotenv.Load()

	port, err := parsePortEnv("PORT", "3000")
	if err != nil {
		return nil, err
	}

	cfg := &Gateway{
		Port:         port,
		Env:          getEnv("APP_ENV", "development"),
		JWTSecret:    strings.TrimSpace(getEnv("JWT_SECRET", "")),
		WorkersURL:   getEnv("WORKERS_SERVICE_URL", "http://localhost:3001"),
		BenefitsURL:  getEnv("BENEFITS_SERVICE_URL", "http://localhost:3002"),
		PayrollURL:   getEnv("PAYROLL_SERVICE_URL", "http://localhost:3003"),
		DocumentsURL: getEnv("DOCUMENTS_SERVICE_URL", "http://localhost:3004"),
		RedisURL:     getEnv("REDIS_URL", ""),
		RateLimit:    RateLimitConfig{RequestsPerSecond: 10, Burst: 20},
	}

	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	for _, origin := range strings.Split(getEnv("ALLOW_ORIGINS", ""), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	timeout, err := parseDurationEnv("PROXY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ProxyTimeout = timeout

	for _, role := range strings.Split(getEnv("PAYROLL_ROLES", "admin,rh"), ",") {
		role = strings.TrimSpace(role)
		if role != "" {
			cfg.PayrollRoles = append(cfg.PayrollRoles, role)
		}
	}

	return cfg, nil
}

// LoadService carrega configuração de um serviço de domínio.
func LoadService(defaultPort string) (*Service, error) {
	_ = godotenv.Load()

	port, err := parsePortEnv("PORT", defaultPort)
	if err != nil {
		return nil, err
	}

	cfg := &Service{
		Port:        port,
		Env:         getEnv("APP_ENV", "development"),
		DBDSN:       getEnv("DB_DSN", ""),
		WorkersURL:  getEnv("WORKERS_SERVICE_URL", "http://localhost:3001"),
		BenefitsURL: getEnv("BENEFITS_SERVICE_URL", "http://localhost:3002"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	timeout, err := parseDurationEnv("LOOKUP_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.LookupTimeout = timeout

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parsePortEnv(key, def string) (int, error) {
	port, err := strconv.Atoi(getEnv(key, def))
	if err != nil || port <= 0 {
		return 0, errors.New(key + " inválida")
	}
	return port, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
