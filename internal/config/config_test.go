// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name:     "default port hidden",
			cfg:      &Config{Server: ServerConfig{Host: "silicondzor.com", Port: 80}},
			expected: "http://silicondzor.com",
		},
		{
			name:     "custom port shown",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 8080}},
			expected: "http://localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func TestCookieSecure(t *testing.T) {
	cfg := &Config{Server: ServerConfig{BaseURL: "https://silicondzor.com"}}
	assert.True(t, cfg.CookieSecure())

	cfg.Server.BaseURL = "http://localhost:8080"
	assert.False(t, cfg.CookieSecure())
}

func TestValidate_Debug(t *testing.T) {
	cfg := &Config{Env: EnvDebug}

	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnknownEnv(t *testing.T) {
	cfg := &Config{Env: "staging"}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestValidate_Production(t *testing.T) {
	valid := Config{
		Env: EnvProduction,
		Session: SessionConfig{
			HashKey: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		},
		SMTP: SMTPConfig{
			Host:     "smtp.gmail.com",
			Password: "app-password",
			From:     "iteratehackerspace@gmail.com",
		},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"all secrets present", func(*Config) {}, ""},
		{"missing session key", func(c *Config) { c.Session.HashKey = "" }, "no session hash key"},
		{"debug session key", func(c *Config) { c.Session.HashKey = debugSessionHashKey }, "no session hash key"},
		{"missing smtp host", func(c *Config) { c.SMTP.Host = "" }, "no SMTP host"},
		{"missing smtp password", func(c *Config) { c.SMTP.Password = "" }, "no SMTP password"},
		{"missing smtp from", func(c *Config) { c.SMTP.From = "" }, "no SMTP from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestApplyDebugDefaults(t *testing.T) {
	cfg := &Config{Env: EnvDebug}

	applyDebugDefaults(cfg)

	assert.Equal(t, debugSessionHashKey, cfg.Session.HashKey)
}

func TestApplyDebugDefaults_ProductionUntouched(t *testing.T) {
	cfg := &Config{Env: EnvProduction}

	applyDebugDefaults(cfg)

	assert.Empty(t, cfg.Session.HashKey)
}
