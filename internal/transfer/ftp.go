// Package transfer moves files to and from the vendor's FTP endpoint. The
// endpoint carries distinct credentials from blob storage; despite what the
// vendor's documentation calls it, the protocol is plain FTP.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/pimops/pigman/internal/config"
	"github.com/pimops/pigman/internal/errs"
)

// Client is the transfer surface the publish pipeline needs.
type Client interface {
	// Fetch downloads one remote file by name.
	Fetch(ctx context.Context, name string) ([]byte, error)
	// Store uploads bytes under a remote name, overwriting.
	Store(ctx context.Context, name string, data []byte) error
}

// FTP talks to the vendor endpoint with one connection per operation: the
// server drops idle control connections, and operations are minutes apart
// at best.
type FTP struct {
	addr        string
	user        string
	password    string
	dialTimeout time.Duration
}

// NewFTP builds a client from the transfer configuration.
func NewFTP(cfg config.TransferConfig) *FTP {
	return &FTP{
		addr:        cfg.Addr(),
		user:        cfg.User,
		password:    cfg.Password,
		dialTimeout: cfg.DialTimeout,
	}
}

func (c *FTP) Fetch(ctx context.Context, name string) ([]byte, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Quit()

	resp, err := conn.Retr(name)
	if err != nil {
		return nil, errs.Wrap(errs.KindRemoteIO, "transfer.Fetch", fmt.Errorf("RETR %s: %w", name, err))
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, errs.Wrap(errs.KindRemoteIO, "transfer.Fetch", fmt.Errorf("read %s: %w", name, err))
	}
	return data, nil
}

func (c *FTP) Store(ctx context.Context, name string, data []byte) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Quit()

	if err := conn.Stor(name, bytes.NewReader(data)); err != nil {
		return errs.Wrap(errs.KindRemoteIO, "transfer.Store", fmt.Errorf("STOR %s: %w", name, err))
	}
	return nil
}

func (c *FTP) connect(ctx context.Context) (*ftp.ServerConn, error) {
	conn, err := ftp.Dial(c.addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(c.dialTimeout))
	if err != nil {
		return nil, errs.Wrap(errs.KindRemoteIO, "transfer.connect", fmt.Errorf("dial %s: %w", c.addr, err))
	}
	if err := conn.Login(c.user, c.password); err != nil {
		conn.Quit()
		return nil, errs.Wrap(errs.KindAuth, "transfer.connect", fmt.Errorf("login as %s: %w", c.user, err))
	}
	return conn, nil
}
