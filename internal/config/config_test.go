package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8081", cfg.Services.AuthURL)
	assert.Equal(t, "http://localhost:8082", cfg.Services.OrderURL)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, RolePolicyEmail, cfg.Policy.RolePolicy)
	assert.Equal(t, []string{"admin@oms.com"}, cfg.Policy.AdminEmails)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 15*time.Second, cfg.Services.ClientTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_SERVICE_URL", "https://id.example.com/")
	t.Setenv("ORDER_SERVICE_URL", "https://orders.example.com")
	t.Setenv("ADMIN_EMAILS", "ops@example.com, root@example.com ,")
	t.Setenv("ROLE_POLICY", "SERVER")
	t.Setenv("TOKEN_STORE_BACKEND", "redis")
	t.Setenv("HTTP_CLIENT_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://id.example.com", cfg.Services.AuthURL)
	assert.Equal(t, "https://orders.example.com", cfg.Services.OrderURL)
	assert.Equal(t, []string{"ops@example.com", "root@example.com"}, cfg.Policy.AdminEmails)
	assert.Equal(t, RolePolicyServer, cfg.Policy.RolePolicy)
	assert.Equal(t, StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, 15, cfg.Services.ClientTimeoutSeconds)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"TOKEN_STORE_BACKEND": "sqlite"}},
		{name: "postgres without dsn", env: map[string]string{"TOKEN_STORE_BACKEND": "postgres"}},
		{name: "unknown role policy", env: map[string]string{"ROLE_POLICY": "ldap"}},
		{name: "bad redis db", env: map[string]string{"REDIS_DB": "x"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
