// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email_test

import (
	"context"
	"testing"

	"github.com/iteratehackerspace/silicondzor/internal/config"
	"github.com/iteratehackerspace/silicondzor/internal/services/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	svc, err := email.NewService(&config.SMTPConfig{
		Host: "smtp.gmail.com",
		Port: 465,
		From: "iteratehackerspace@gmail.com",
	}, "http://localhost:8080/")

	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewService_MissingHost(t *testing.T) {
	_, err := email.NewService(&config.SMTPConfig{
		From: "iteratehackerspace@gmail.com",
	}, "http://localhost:8080")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP host is required")
}

func TestNewService_MissingFrom(t *testing.T) {
	_, err := email.NewService(&config.SMTPConfig{
		Host: "smtp.gmail.com",
	}, "http://localhost:8080")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP from address is required")
}

func TestVerifyLink(t *testing.T) {
	link := email.VerifyLink("http://localhost:8080/", "abc-123")

	assert.Equal(t, "http://localhost:8080/verify-account/abc-123", link)
}

func TestDebugDispatcher(t *testing.T) {
	d := &email.DebugDispatcher{BaseURL: "http://localhost:8080"}

	err := d.SendVerification(context.Background(), "alice@example.com", "abc-123")

	assert.NoError(t, err)
}
