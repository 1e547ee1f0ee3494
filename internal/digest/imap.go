package digest

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

const DefaultIMAPAddr = "imap.gmail.com:993"

// Archiver keeps a copy of every delivered digest.
type Archiver interface {
	Archive(ctx context.Context, msg []byte) error
}

// IMAPArchiver appends sent digests to a mailbox, flagged as seen.
type IMAPArchiver struct {
	Addr      string
	Username  string
	Password  string
	Mailbox   string
	TLSConfig *tls.Config
}

func (a *IMAPArchiver) Archive(ctx context.Context, msg []byte) error {
	addr := a.Addr
	if addr == "" {
		addr = DefaultIMAPAddr
	}
	mailbox := a.Mailbox
	if mailbox == "" {
		mailbox = "Job Digests"
	}

	c, err := dialAndLogin(ctx, addr, a.Username, a.Password, a.TLSConfig)
	if err != nil {
		return err
	}
	defer c.Close()

	cmd := c.Append(mailbox, int64(len(msg)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagSeen},
		Time:  time.Now(),
	})
	if _, err := cmd.Write(msg); err != nil {
		_ = cmd.Close()
		return fmt.Errorf("imap append write: %w", err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap append close: %w", err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("imap append %q: %w", mailbox, err)
	}
	return c.Logout().Wait()
}

func dialAndLogin(ctx context.Context, addr, username, password string, tlsCfg *tls.Config) (*imapclient.Client, error) {
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	c, err := imapclient.DialTLS(addr, &imapclient.Options{TLSConfig: tlsCfg})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// close on cancel; the caller's Close covers the normal path
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })

	if err := c.Login(username, password).Wait(); err != nil {
		stop()
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}
