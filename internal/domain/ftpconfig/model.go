package ftpconfig

import (
	"fmt"
	"time"

	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// FtpConfig is a shop's remote delivery destination. At most one exists per
// shop; its absence means reports are generated but not auto-delivered.
type FtpConfig struct {
	ID          string                 `db:"id" json:"id"`
	Host        string                 `db:"host" json:"host"`
	Port        int                    `db:"port" json:"port"`
	Protocol    types.DeliveryProtocol `db:"protocol" json:"protocol"`
	Username    string                 `db:"username" json:"username"`
	Password    string                 `db:"password" json:"-"`
	Directory   string                 `db:"directory" json:"directory"`
	PassiveMode bool                   `db:"passive_mode" json:"passive_mode"`
	// RetryDelaySeconds overrides the process-wide retry delay when set.
	RetryDelaySeconds *int `db:"retry_delay" json:"retry_delay,omitempty"`

	types.BaseModel
}

func (c *FtpConfig) Validate() error {
	if c.Host == "" {
		return ierr.NewError("ftp host is required").
			WithHint("Delivery host is required").
			Mark(ierr.ErrValidation)
	}
	if err := c.Protocol.Validate(); err != nil {
		return err
	}
	if c.Port <= 0 || c.Port > 65535 {
		return ierr.NewErrorf("invalid ftp port %d", c.Port).
			WithHint("Delivery port must be between 1 and 65535").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Addr returns the host:port dial address.
func (c *FtpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RetryDelay returns the shop's configured retry delay, or def when unset.
func (c *FtpConfig) RetryDelay(def time.Duration) time.Duration {
	if c.RetryDelaySeconds == nil || *c.RetryDelaySeconds <= 0 {
		return def
	}
	return time.Duration(*c.RetryDelaySeconds) * time.Second
}

// Redacted returns a loggable description of the destination. The password
// never appears in logs or error messages.
func (c *FtpConfig) Redacted() string {
	return fmt.Sprintf("%s://%s@%s%s", c.Protocol, c.Username, c.Addr(), c.Directory)
}
