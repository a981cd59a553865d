package delivery

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/jlaffaye/ftp"
)

// FTPTransport uploads artifacts over plain FTP.
type FTPTransport struct {
	dialTimeout time.Duration
}

func NewFTPTransport(dialTimeout time.Duration) *FTPTransport {
	return &FTPTransport{dialTimeout: dialTimeout}
}

func (t *FTPTransport) Upload(ctx context.Context, config *ftpconfig.FtpConfig, fileName string, content []byte) error {
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(t.dialTimeout),
	}
	// The client always runs passive transfers; legacy servers that predate
	// EPSV need the extended command disabled.
	if !config.PassiveMode {
		opts = append(opts, ftp.DialWithDisabledEPSV(true))
	}

	conn, err := ftp.Dial(config.Addr(), opts...)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Login(config.Username, config.Password); err != nil {
		return err
	}

	if config.Directory != "" && config.Directory != "/" {
		// Missing directories are created best-effort; Stor reports the
		// authoritative failure if the path is actually unusable.
		_ = conn.MakeDir(config.Directory)
	}

	remotePath := path.Join(config.Directory, fileName)
	return conn.Stor(remotePath, bytes.NewReader(content))
}
