package delivery

import (
	"context"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/fiscalflow/fiscalflow/internal/config"
	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// Transport uploads one artifact over a concrete protocol. Uploads overwrite
// any existing remote file so retries are idempotent.
type Transport interface {
	Upload(ctx context.Context, config *ftpconfig.FtpConfig, fileName string, content []byte) error
}

// Client ships artifacts to a shop's configured destination, retrying
// transient failures with bounded exponential backoff.
type Client interface {
	Deliver(ctx context.Context, config *ftpconfig.FtpConfig, fileName string, content []byte) (types.DeliveryStatus, error)
}

type client struct {
	cfg        config.DeliveryConfig
	transports map[types.DeliveryProtocol]Transport
	logger     *logger.Logger
}

// NewClient creates a delivery client with the built-in FTP and SFTP
// transports.
func NewClient(cfg config.DeliveryConfig, log *logger.Logger) Client {
	return NewClientWithTransports(cfg, log, map[types.DeliveryProtocol]Transport{
		types.DeliveryProtocolFTP:  NewFTPTransport(cfg.DialTimeout),
		types.DeliveryProtocolSFTP: NewSFTPTransport(cfg.DialTimeout),
	})
}

// NewClientWithTransports creates a delivery client over the given
// transports. Used by tests to substitute fakes.
func NewClientWithTransports(cfg config.DeliveryConfig, log *logger.Logger, transports map[types.DeliveryProtocol]Transport) Client {
	return &client{
		cfg:        cfg,
		transports: transports,
		logger:     log,
	}
}

func (c *client) Deliver(ctx context.Context, ftpCfg *ftpconfig.FtpConfig, fileName string, content []byte) (types.DeliveryStatus, error) {
	if err := ftpCfg.Validate(); err != nil {
		return types.DeliveryStatusFailed, err
	}

	transport, ok := c.transports[ftpCfg.Protocol]
	if !ok {
		return types.DeliveryStatusFailed, ierr.NewErrorf("no transport for protocol %s", ftpCfg.Protocol).
			WithHint("Delivery protocol is not supported").
			Mark(ierr.ErrInvalidOperation)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = ftpCfg.RetryDelay(c.cfg.RetryDelay)
	bo.Multiplier = 2
	bo.MaxInterval = c.cfg.MaxInterval
	bo.MaxElapsedTime = 0
	bo.RandomizationFactor = 0

	attempts := 0
	operation := func() error {
		attempts++
		err := transport.Upload(ctx, ftpCfg, fileName, content)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		c.logger.Warnw("transient delivery failure, will retry",
			"destination", ftpCfg.Redacted(),
			"file", fileName,
			"attempt", attempts,
			"error", redact(err, ftpCfg.Password))
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.cfg.MaxAttempts-1)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		werr := ierr.NewErrorf("delivery to %s failed after %d attempts: %s",
			ftpCfg.Redacted(), attempts, redact(err, ftpCfg.Password)).
			WithHint("Could not upload the report to the configured destination").
			Mark(ierr.ErrDelivery)
		return types.DeliveryStatusFailed, werr
	}

	c.logger.Infow("delivered artifact",
		"destination", ftpCfg.Redacted(),
		"file", fileName,
		"attempts", attempts,
		"bytes", len(content))
	return types.DeliveryStatusSuccess, nil
}

// redact strips the destination password from an error message before it is
// logged or persisted.
func redact(err error, password string) string {
	msg := err.Error()
	if password != "" {
		msg = strings.ReplaceAll(msg, password, "****")
	}
	return msg
}
