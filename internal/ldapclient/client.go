package ldapclient

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/joho/godotenv"
	"github.com/matthewdavidson09/offboardctl/tools"
)

type Config struct {
	Server   string
	Port     string
	BindUser string
	BindPass string
	BaseDN   string
}

// ConfigFromEnv loads connection material from .env / the environment.
func ConfigFromEnv() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("error loading .env: %w", err)
	}

	cfg := Config{
		Server:   strings.TrimSpace(os.Getenv("LDAP_SERVER")),
		Port:     strings.TrimSpace(os.Getenv("LDAP_PORT")),
		BindUser: strings.TrimSpace(os.Getenv("LDAP_USER")),
		BindPass: strings.TrimSpace(os.Getenv("LDAP_PASSWORD")),
		BaseDN:   strings.TrimSpace(os.Getenv("BASE_DN")),
	}
	if cfg.Port == "" {
		cfg.Port = "389"
	}
	if cfg.Server == "" {
		return Config{}, fmt.Errorf("LDAP_SERVER is not set")
	}
	if cfg.BaseDN == "" {
		return Config{}, fmt.Errorf("BASE_DN is not set")
	}
	return cfg, nil
}

type LDAPClient struct {
	Conn   *ldap.Conn
	BaseDN string
}

// Connect resolves the LDAP hostname to an IP and returns a bound LDAPClient.
func Connect(cfg Config) (*LDAPClient, error) {
	// Resolve DNS
	addrs, err := net.LookupHost(cfg.Server)
	if err != nil || len(addrs) == 0 {
		return nil, fmt.Errorf("DNS lookup failed for %s: %v", cfg.Server, err)
	}
	ip := addrs[0]

	tools.Log.WithFields(map[string]interface{}{
		"host": cfg.Server,
		"ip":   ip,
		"port": cfg.Port,
	}).Debug("Resolved LDAP server IP")

	return connectWithIP(cfg, ip)
}

// connectWithIP connects to a specific LDAP IP and returns a bound client.
func connectWithIP(cfg Config, ip string) (*LDAPClient, error) {
	url := fmt.Sprintf("ldap://%s:%s", ip, cfg.Port)
	tools.Log.WithField("url", url).Debug("Connecting to resolved LDAP IP")

	conn, err := ldap.DialURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP: %w", err)
	}

	if err := conn.Bind(cfg.BindUser, cfg.BindPass); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind: %w", err)
	}

	tools.Log.Debug("Successfully bound to LDAP")

	return &LDAPClient{
		Conn:   conn,
		BaseDN: cfg.BaseDN,
	}, nil
}

// Close cleans up the connection
func (c *LDAPClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		tools.Log.Debug("Closed LDAP connection")
	}
}
