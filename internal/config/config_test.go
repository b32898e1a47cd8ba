package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	t.Setenv("SURREAL_URL", "ws://localhost:8000/rpc")
	t.Setenv("SURREAL_NS", "genewar")
	t.Setenv("SURREAL_DB", "genewar")

	cfg := New()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2*time.Minute, cfg.DisconnectGrace)
	assert.Equal(t, 50, cfg.MaxTurns)
	assert.Equal(t, time.Second, cfg.MatchTick)
	assert.Equal(t, 32.0, cfg.EloK)
}

func TestOverrides(t *testing.T) {
	t.Setenv("SURREAL_URL", "ws://localhost:8000/rpc")
	t.Setenv("SURREAL_NS", "genewar")
	t.Setenv("SURREAL_DB", "genewar")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DISCONNECT_GRACE", "45s")
	t.Setenv("MAX_TURNS", "10")
	t.Setenv("ELO_K", "16")

	cfg := New()

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 45*time.Second, cfg.DisconnectGrace)
	assert.Equal(t, 10, cfg.MaxTurns)
	assert.Equal(t, 16.0, cfg.EloK)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SURREAL_URL", "ws://localhost:8000/rpc")
	t.Setenv("SURREAL_NS", "genewar")
	t.Setenv("SURREAL_DB", "genewar")
	t.Setenv("MAX_TURNS", "not-a-number")
	t.Setenv("DISCONNECT_GRACE", "soon")

	cfg := New()

	assert.Equal(t, 50, cfg.MaxTurns)
	assert.Equal(t, 2*time.Minute, cfg.DisconnectGrace)
}
