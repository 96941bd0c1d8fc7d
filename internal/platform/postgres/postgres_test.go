package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyDSN)
}

func TestConnectOrFallback_LogsAndReturnsNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	db, cleanup := ConnectOrFallback(context.Background(), "", logger)
	require.Nil(t, db)
	require.NotNil(t, cleanup)
	cleanup()
	require.Contains(t, buf.String(), "POSTGRES_DSN not set")
}

func TestClose_NilIsNoop(t *testing.T) {
	Close(nil)
}
