package delivery

import (
	"errors"
	"io"
	"net"
	"net/textproto"
	"syscall"
)

// Transient FTP reply codes: service not available, can't open data
// connection, connection closed / transfer aborted.
var transientFTPCodes = map[int]bool{
	421: true,
	425: true,
	426: true,
}

// isTransient classifies a delivery failure as retryable. Anything else is
// treated as permanent (bad credentials, missing directory, protocol errors)
// and surfaces immediately.
func isTransient(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return transientFTPCodes[protoErr.Code]
	}

	// Dial-level failures (DNS, unreachable host) come back as *net.OpError.
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
