package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/jmoiron/sqlx"
)

// credentialCarrier is implemented by statement parameters that hold
// secrets, such as delivery destinations with passwords. The tracer logs
// the redacted form, never the raw struct.
type credentialCarrier interface {
	Redacted() string
}

// loggableParams renders statement parameters for the query log, replacing
// credential-carrying values with their redacted form.
func loggableParams(params interface{}) string {
	switch p := params.(type) {
	case credentialCarrier:
		return p.Redacted()
	case []interface{}:
		parts := make([]string, len(p))
		for i, v := range p {
			if c, ok := v.(credentialCarrier); ok {
				parts[i] = c.Redacted()
			} else {
				parts[i] = fmt.Sprintf("%+v", v)
			}
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprintf("%+v", params)
	}
}

// QueryTracer times one statement and logs its outcome.
type QueryTracer struct {
	logger *logger.Logger
	query  string
	params string
	start  time.Time
	txID   string
}

// NewQueryTracer creates a tracer for one statement. Parameters are
// rendered through loggableParams up front so secrets cannot reach the log
// on either path.
func NewQueryTracer(logger *logger.Logger, query string, params interface{}, txID string) *QueryTracer {
	return &QueryTracer{
		logger: logger,
		query:  query,
		params: loggableParams(params),
		start:  time.Now(),
		txID:   txID,
	}
}

// Done logs the query completion
func (qt *QueryTracer) Done(err error) {
	duration := time.Since(qt.start)
	fields := []interface{}{
		"duration_ms", duration.Milliseconds(),
		"query", qt.query,
		"params", qt.params,
	}
	if qt.txID != "" {
		fields = append(fields, "tx_id", qt.txID)
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
		qt.logger.Errorw("database query failed", fields...)
		return
	}
	qt.logger.Debugw("database query completed", fields...)
}

// TracedQuerier wraps a Querier with tracing
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

// NewTracedQuerier creates a new traced querier
func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

// NamedExec traces NamedExec calls
func (tq *TracedQuerier) NamedExec(query string, arg interface{}) (sql.Result, error) {
	tracer := NewQueryTracer(tq.logger, query, arg, tq.txID)
	result, err := tq.Querier.NamedExec(query, arg)
	tracer.Done(err)
	return result, err
}

// NamedQuery traces NamedQuery calls
func (tq *TracedQuerier) NamedQuery(query string, arg interface{}) (*sqlx.Rows, error) {
	tracer := NewQueryTracer(tq.logger, query, arg, tq.txID)
	rows, err := tq.Querier.NamedQuery(query, arg)
	tracer.Done(err)
	return rows, err
}
