// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/article-engine/pkg/types"
)

func TestNew(t *testing.T) {
	for _, cfg := range []types.LogConfig{
		{},
		{Level: "debug"},
		{Level: "warn", Development: true},
	} {
		l, err := New(cfg)
		require.NoError(t, err)
		require.NotNil(t, l)
		l.Debug("probe")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With(String("slug", "best-tents"))

	l.Warn("unterminated object", Int("offset", 12), Err(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "unterminated object", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "best-tents", ctx["slug"])
	assert.Equal(t, int64(12), ctx["offset"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored", Bool("k", true))
	assert.Same(t, l, l.With(String("a", "b")))
	assert.NoError(t, l.Sync())
}
