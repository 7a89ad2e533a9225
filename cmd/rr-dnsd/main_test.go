package main

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullhorizon/recon-dns/internal/dns/config"
)

func testConfig(t *testing.T, port int) *config.AppConfig {
	t.Helper()
	t.Setenv("ENV", "dev")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("UDP_BIND_ADDRESS", "127.0.0.1")
	t.Setenv("UDP_PORT", fmt.Sprintf("%d", port))
	t.Setenv("HTTP_BIND_ADDRESS", "127.0.0.1")
	// HTTP_PORT is part of the shared config surface but rr-dnsd never
	// binds it; any in-range value satisfies validation.
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("REDIS_URL", "memory://")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func freeUDPPort(t testing.TB) int {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, conn.Close())
	return port
}

func TestBuildApplication_WiresAllComponents(t *testing.T) {
	cfg := testConfig(t, freeUDPPort(t))

	app, err := buildApplication(cfg)
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.NotNil(t, app.config)
	assert.NotNil(t, app.server)
	assert.NotNil(t, app.resolver)
	assert.Equal(t, fmt.Sprintf("%s:%d", cfg.UDP.BindAddress, cfg.UDP.Port), app.server.Address())
}

func TestBuildApplication_RejectsUnrecognizedCacheDSN(t *testing.T) {
	cfg := testConfig(t, freeUDPPort(t))
	cfg.Cache.URL = "redis://localhost:6379"

	app, err := buildApplication(cfg)
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestApplication_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	port := freeUDPPort(t)
	cfg := testConfig(t, port)

	app, err := buildApplication(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appErr := make(chan error, 1)
	go func() {
		appErr <- app.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, err := net.Dial("udp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			require.NoError(t, conn.Close())
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("server failed to start within timeout")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-appErr:
		assert.NoError(t, err, "application should shut down gracefully")
	case <-time.After(5 * time.Second):
		t.Fatal("application failed to shut down within timeout")
	}
}
