package types

import (
	"github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/samber/lo"
)

// DeliveryProtocol is the transport used to ship artifacts to a remote host.
type DeliveryProtocol string

const (
	DeliveryProtocolFTP  DeliveryProtocol = "FTP"
	DeliveryProtocolSFTP DeliveryProtocol = "SFTP"
)

func (p DeliveryProtocol) String() string {
	return string(p)
}

func (p DeliveryProtocol) Validate() error {
	allowed := []DeliveryProtocol{
		DeliveryProtocolFTP,
		DeliveryProtocolSFTP,
	}
	if !lo.Contains(allowed, p) {
		return errors.New(errors.ErrCodeValidation, "invalid delivery protocol")
	}
	return nil
}
