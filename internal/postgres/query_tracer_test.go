package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/shop"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type failingQuerier struct {
	err error
}

func (q failingQuerier) NamedExec(query string, arg interface{}) (sql.Result, error) {
	return nil, q.err
}

func (q failingQuerier) NamedQuery(query string, arg interface{}) (*sqlx.Rows, error) {
	return nil, q.err
}

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func testFtpConfig() *ftpconfig.FtpConfig {
	return &ftpconfig.FtpConfig{
		ID:        "ftpcfg_1",
		Host:      "ftp.example.com",
		Port:      21,
		Protocol:  types.DeliveryProtocolFTP,
		Username:  "merchant",
		Password:  "sup3r-s3cret",
		Directory: "/exports",
	}
}

func assertNoSecret(t *testing.T, logs *observer.ObservedLogs, secret string) {
	t.Helper()
	for _, entry := range logs.All() {
		assert.NotContains(t, entry.Message, secret)
		for _, field := range entry.Context {
			assert.NotContains(t, field.String, secret)
			if field.Interface != nil {
				assert.NotContains(t, fmt.Sprint(field.Interface), secret)
			}
		}
	}
}

func TestTracerRedactsCredentialsOnFailure(t *testing.T) {
	log, logs := observedLogger()
	q := NewTracedQuerier(failingQuerier{err: errors.New("connection reset")}, log, "tx_1")

	cfg := testFtpConfig()
	_, err := q.NamedExec("INSERT INTO ftp_configurations (id) VALUES (:id)", cfg)
	require.Error(t, err)

	require.NotEmpty(t, logs.All())
	assertNoSecret(t, logs, cfg.Password)
}

func TestTracerRedactsCredentialsOnSuccess(t *testing.T) {
	log, logs := observedLogger()
	cfg := testFtpConfig()

	tracer := NewQueryTracer(log, "UPDATE ftp_configurations SET host = :host", cfg, "")
	tracer.Done(nil)

	require.NotEmpty(t, logs.All())
	assertNoSecret(t, logs, cfg.Password)
}

func TestTracerLogsRedactedDestination(t *testing.T) {
	log, logs := observedLogger()
	cfg := testFtpConfig()

	NewQueryTracer(log, "INSERT", cfg, "").Done(nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	found := false
	for _, field := range entries[0].Context {
		if field.Key == "params" {
			assert.Equal(t, cfg.Redacted(), field.String)
			found = true
		}
	}
	assert.True(t, found, "expected a params field")
}

func TestLoggableParams(t *testing.T) {
	cfg := testFtpConfig()

	assert.Equal(t, cfg.Redacted(), loggableParams(cfg))
	assert.NotContains(t, loggableParams([]interface{}{"shop_1", cfg}), cfg.Password)
	assert.Equal(t, "map[shop_id:shop_1]",
		loggableParams(map[string]interface{}{"shop_id": "shop_1"}))

	sh := &shop.Shop{ID: "shop_1", ShopifyDomain: "acme.myshopify.com", AccessToken: "shpat-secret"}
	assert.NotContains(t, loggableParams(sh), sh.AccessToken)
}
