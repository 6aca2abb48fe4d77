package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DatabaseURL      string
	DatabasePassword string

	Lemlist LemlistConfig

	HTTPTimeout    time.Duration
	RelayRateLimit float64
	RelayRateBurst int
	// TrustProxy liga o RealIP do chi: só com um proxy reverso confiável na frente.
	TrustProxy     bool

	AMQPURL string
	Mail    MailConfig
}

type LemlistConfig struct {
	APIKey            string
	APIURL            string
	CampaignID        string
	SendUserID        string
	ContactOwner      string
	PlaceholderDomain string
	RelayURL          string
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	NotifyTo string
}

// Enabled is true when there is an SMTP host and someone to notify.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.NotifyTo != ""
}

// Load lê o .env (se existir) e depois o ambiente.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	port := getEnv("PORT", "8080")

	timeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("HTTP_TIMEOUT inválido: %w", err)
	}
	rateLimit, err := strconv.ParseFloat(getEnv("RELAY_RATE_LIMIT", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("RELAY_RATE_LIMIT inválido: %w", err)
	}
	rateBurst, err := strconv.Atoi(getEnv("RELAY_RATE_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("RELAY_RATE_BURST inválido: %w", err)
	}
	mailPort, err := strconv.Atoi(getEnv("MAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("MAIL_PORT inválido: %w", err)
	}

	cfg := &Config{
		Port:             port,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DatabasePassword: os.Getenv("DATABASE_PASSWORD"),
		Lemlist: LemlistConfig{
			APIKey:            os.Getenv("LEMLIST_API_KEY"),
			APIURL:            getEnv("LEMLIST_API_URL", "https://api.lemlist.com"),
			CampaignID:        os.Getenv("LEMLIST_CAMPAIGN_ID"),
			SendUserID:        os.Getenv("LEMLIST_SEND_USER_ID"),
			ContactOwner:      os.Getenv("LEMLIST_CONTACT_OWNER"),
			PlaceholderDomain: getEnv("LEMLIST_PLACEHOLDER_DOMAIN", "nexus-sep.com"),
			RelayURL:          getEnv("OUTREACH_RELAY_URL", "http://localhost:"+port+"/api/outreach"),
		},
		HTTPTimeout:    timeout,
		RelayRateLimit: rateLimit,
		RelayRateBurst: rateBurst,
		TrustProxy:     os.Getenv("TRUST_PROXY") == "true",
		AMQPURL:        os.Getenv("AMQP_URL"),
		Mail: MailConfig{
			Host:     os.Getenv("MAIL_HOST"),
			Port:     mailPort,
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			From:     getEnv("MAIL_FROM", "nao-responda@nexus-sep.com"),
			NotifyTo: os.Getenv("NOTIFY_EMAIL"),
		},
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL é obrigatório")
	}
	if c.Lemlist.APIKey == "" {
		log.Println("⚠️ LEMLIST_API_KEY não configurado: o proxy vai responder erro de configuração")
	}
	if c.Lemlist.CampaignID == "" {
		log.Println("⚠️ LEMLIST_CAMPAIGN_ID não configurado: sync de leads qualificados vai falhar")
	}
	return nil
}

// DSN devolve a URL do banco com a access key aplicada como senha.
func (c *Config) DSN() (string, error) {
	if c.DatabasePassword == "" {
		return c.DatabaseURL, nil
	}
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("DATABASE_URL inválido: %w", err)
	}
	user := ""
	if u.User != nil {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, c.DatabasePassword)
	return u.String(), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
