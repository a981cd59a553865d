package delivery

import (
	"context"
	"path"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPTransport uploads artifacts over the SSH file transfer subsystem.
type SFTPTransport struct {
	dialTimeout time.Duration
}

func NewSFTPTransport(dialTimeout time.Duration) *SFTPTransport {
	return &SFTPTransport{dialTimeout: dialTimeout}
}

func (t *SFTPTransport) Upload(ctx context.Context, config *ftpconfig.FtpConfig, fileName string, content []byte) error {
	sshConfig := &ssh.ClientConfig{
		User: config.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(config.Password),
		},
		// Destinations are merchant-managed appliances with unstable host
		// keys; pinning is not practical here.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         t.dialTimeout,
	}

	conn, err := ssh.Dial("tcp", config.Addr(), sshConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return err
	}
	defer client.Close()

	if config.Directory != "" && config.Directory != "/" {
		if err := client.MkdirAll(config.Directory); err != nil {
			return err
		}
	}

	remotePath := path.Join(config.Directory, fileName)
	f, err := client.Create(remotePath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return err
	}
	_, err = f.Write(content)
	return err
}
