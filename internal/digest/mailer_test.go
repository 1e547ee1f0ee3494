package digest

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

type fakeTransport struct {
	err  error
	from string
	to   []string
	msg  []byte
}

func (f *fakeTransport) Send(_ context.Context, from string, to []string, msg []byte) error {
	f.from, f.to, f.msg = from, to, msg
	return f.err
}

type fakeArchiver struct {
	got [][]byte
	err error
}

func (f *fakeArchiver) Archive(_ context.Context, msg []byte) error {
	f.got = append(f.got, msg)
	return f.err
}

var creds = Config{From: "me@example.com", Password: "app-pass"}

func TestSendDigestSuccess(t *testing.T) {
	tr := &fakeTransport{}
	ar := &fakeArchiver{}
	m := NewMailer(creds, nil, WithTransport(tr), WithArchiver(ar))

	ok, msg := m.SendDigest(context.Background(), "you@example.com", records(3), Preferences{})
	if !ok || msg != "Email sent successfully" {
		t.Fatalf("got %v %q", ok, msg)
	}
	if tr.from != "me@example.com" || len(tr.to) != 1 || tr.to[0] != "you@example.com" {
		t.Fatalf("envelope %q %v", tr.from, tr.to)
	}
	if len(ar.got) != 1 {
		t.Fatal("message not archived")
	}

	r, err := mail.CreateReader(strings.NewReader(string(tr.msg)))
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	subject, _ := r.Header.Subject()
	if subject != "Daily Job Digest - 3 New Opportunities" {
		t.Fatalf("subject = %q", subject)
	}
	ct, params, _ := r.Header.ContentType()
	if ct != "text/html" || params["charset"] != "utf-8" {
		t.Fatalf("content type %q %v", ct, params)
	}
}

func TestSendDigestArchiveFailureIsNotFatal(t *testing.T) {
	m := NewMailer(creds, nil, WithTransport(&fakeTransport{}), WithArchiver(&fakeArchiver{err: errors.New("imap down")}))
	if ok, _ := m.SendDigest(context.Background(), "you@example.com", nil, Preferences{}); !ok {
		t.Fatal("archive failure changed the result")
	}
}

func TestSendDigestFailures(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		to   string
		err  error
		want string
	}{
		{"missing email", Config{Password: "x"}, "you@example.com", nil, "GMAIL_EMAIL"},
		{"missing password", Config{From: "me@example.com"}, "you@example.com", nil, "GMAIL_APP_PASSWORD"},
		{"bad recipient", creds, "not-an-email", nil, "invalid recipient"},
		{"auth", creds, "you@example.com", &textproto.Error{Code: 535, Msg: "bad credentials"}, "App Password"},
		{"other", creds, "you@example.com", errors.New("connection reset"), "SMTP error: connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTransport{err: tt.err}
			ok, msg := NewMailer(tt.cfg, nil, WithTransport(tr)).SendDigest(context.Background(), tt.to, records(1), Preferences{})
			if ok {
				t.Fatal("expected failure")
			}
			if !strings.Contains(msg, tt.want) {
				t.Fatalf("message %q does not mention %q", msg, tt.want)
			}
		})
	}
}

func TestSendTest(t *testing.T) {
	tr := &fakeTransport{}
	ok, msg := NewMailer(creds, nil, WithTransport(tr), WithClock(func() time.Time { return time.Unix(0, 0) })).
		SendTest(context.Background(), "you@example.com")
	if !ok || msg != "Test email sent successfully" {
		t.Fatalf("got %v %q", ok, msg)
	}
	if !strings.Contains(string(tr.msg), "Test Email - Job Finder App") {
		t.Fatal("subject missing")
	}
	if ok, msg := NewMailer(Config{}, nil, WithTransport(tr)).SendTest(context.Background(), "you@example.com"); ok || msg != "Gmail credentials not configured" {
		t.Fatalf("got %v %q", ok, msg)
	}
}

func TestValidEmail(t *testing.T) {
	for addr, want := range map[string]bool{
		"a.b+c@example.co.uk": true,
		"user@host":           false,
		"@example.com":        false,
		"user@exa mple.com":   false,
		"":                    false,
	} {
		if got := ValidEmail(addr); got != want {
			t.Errorf("ValidEmail(%q) = %v", addr, got)
		}
	}
}

func TestIsAuthError(t *testing.T) {
	if !IsAuthError(fmt.Errorf("smtp auth: %w", &smtp.SMTPError{Code: 535, Message: "bad credentials"})) {
		t.Fatal("535 should be an auth error")
	}
	if IsAuthError(&smtp.SMTPError{Code: 550}) || IsAuthError(errors.New("x")) {
		t.Fatal("unexpected auth error")
	}
}

type rejectingBackend struct{}

func (rejectingBackend) NewSession(*smtp.Conn) (smtp.Session, error) { return &rejectingSession{}, nil }

type rejectingSession struct{}

func (*rejectingSession) AuthMechanisms() []string { return []string{sasl.Plain} }

func (*rejectingSession) Auth(string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		return &smtp.SMTPError{Code: 535, EnhancedCode: smtp.EnhancedCode{5, 7, 8}, Message: "Username and Password not accepted"}
	}), nil
}

func (*rejectingSession) Mail(string, *smtp.MailOptions) error { return nil }
func (*rejectingSession) Rcpt(string, *smtp.RcptOptions) error { return nil }
func (*rejectingSession) Data(r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}
func (*rejectingSession) Reset()        {}
func (*rejectingSession) Logout() error { return nil }

func TestSendDigestAuthFailureHint(t *testing.T) {
	certSrv := httptest.NewTLSServer(http.NotFoundHandler())
	defer certSrv.Close()
	serverTLS := certSrv.TLS.Clone()
	serverTLS.NextProtos = nil
	pool := x509.NewCertPool()
	pool.AddCert(certSrv.Certificate())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := smtp.NewServer(rejectingBackend{})
	srv.Domain = "localhost"
	srv.TLSConfig = serverTLS
	go srv.Serve(ln)
	defer srv.Close()

	tr := &SMTPTransport{
		Addr:      ln.Addr().String(),
		Username:  creds.From,
		Password:  creds.Password,
		Timeout:   5 * time.Second,
		TLSConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
	}
	ok, msg := NewMailer(creds, nil, WithTransport(tr)).SendDigest(context.Background(), "you@example.com", nil, Preferences{})
	if ok {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(msg, "SMTP Authentication failed") || !strings.Contains(msg, "App Password") {
		t.Fatalf("msg = %q", msg)
	}
}

func TestSMTPTransportRequiresStartTLS(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 localhost ESMTP")
		br := bufio.NewReader(conn)
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				return
			}
			switch {
			case strings.HasPrefix(line, "EHLO"):
				_ = tp.PrintfLine("250 localhost")
			case strings.HasPrefix(line, "QUIT"):
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("250 ok")
			}
		}
	}()

	tr := &SMTPTransport{Addr: ln.Addr().String(), Username: "u", Password: "p", Timeout: 2 * time.Second}
	err = tr.Send(context.Background(), "me@example.com", []string{"you@example.com"}, []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "STARTTLS") {
		t.Fatalf("got %v", err)
	}
}
