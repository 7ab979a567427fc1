package smtpmail

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutes/internal/services"
)

// fakeRelay accepts one session and records the envelope and data.
type fakeRelay struct {
	listener net.Listener
	mu       sync.Mutex
	from     string
	rcpt     string
	data     strings.Builder
	rejectTo string
	done     chan struct{}
}

func startRelay(t *testing.T, rejectTo string) *fakeRelay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	r := &fakeRelay{listener: ln, rejectTo: rejectTo, done: make(chan struct{})}
	go r.serve()
	t.Cleanup(func() { ln.Close() })
	return r
}

func (r *fakeRelay) port() int {
	return r.listener.Addr().(*net.TCPAddr).Port
}

func (r *fakeRelay) serve() {
	defer close(r.done)
	conn, err := r.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)
	write := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }
	write("220 fake ESMTP")
	inData := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if inData {
			if line == "." {
				inData = false
				write("250 queued")
				continue
			}
			r.mu.Lock()
			r.data.WriteString(line + "\n")
			r.mu.Unlock()
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "EHLO"), strings.HasPrefix(upper, "HELO"):
			write("250 fake")
		case strings.HasPrefix(upper, "MAIL FROM:"):
			r.mu.Lock()
			r.from = strings.Trim(line[len("MAIL FROM:"):], "<> ")
			r.mu.Unlock()
			write("250 ok")
		case strings.HasPrefix(upper, "RCPT TO:"):
			to := strings.Trim(line[len("RCPT TO:"):], "<> ")
			if to == r.rejectTo {
				write("550 mailbox unavailable")
				continue
			}
			r.mu.Lock()
			r.rcpt = to
			r.mu.Unlock()
			write("250 ok")
		case upper == "DATA":
			inData = true
			write("354 go ahead")
		case upper == "QUIT":
			write("221 bye")
			return
		default:
			write("250 ok")
		}
	}
}

func TestSendDeliversMessage(t *testing.T) {
	relay := startRelay(t, "")
	client, err := New(Config{Host: "127.0.0.1", Port: relay.port(), From: `"Meeting Coordinator" <bot@example.com>`})
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), "ana@example.com", "Meeting Action Items", "<p>Task</p>"))
	<-relay.done

	relay.mu.Lock()
	defer relay.mu.Unlock()
	assert.Equal(t, "bot@example.com", relay.from)
	assert.Equal(t, "ana@example.com", relay.rcpt)
	assert.Contains(t, relay.data.String(), "Subject: Meeting Action Items")
	assert.Contains(t, relay.data.String(), "<p>Task</p>")
}

func TestSendReportsRejectedRecipient(t *testing.T) {
	relay := startRelay(t, "ghost@example.com")
	client, err := New(Config{Host: "127.0.0.1", Port: relay.port(), From: "bot@example.com"})
	require.NoError(t, err)

	err = client.Send(context.Background(), "ghost@example.com", "Meeting Summary", "<p>x</p>")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrService)
	assert.Contains(t, err.Error(), "rcpt to")
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{From: "bot@example.com"})
	assert.ErrorIs(t, err, services.ErrConfiguration)
	_, err = New(Config{Host: "smtp.example.com"})
	assert.ErrorIs(t, err, services.ErrConfiguration)

	client, err := New(Config{Host: "smtp.example.com", From: "bot@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 587, client.cfg.Port)
}

func TestEnvelopeAddress(t *testing.T) {
	assert.Equal(t, "bot@example.com", envelopeAddress(`"Bot" <bot@example.com>`))
	assert.Equal(t, "bot@example.com", envelopeAddress("bot@example.com"))
}
