// Package mail assembles RFC 5322 notification messages.
package mail

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	netmail "net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is the content of one outbound email.
type Message struct {
	From      string
	To        string
	Subject   string
	HTML      string
	Date      time.Time
	MessageID string
}

// ErrMissingRecipient is returned when a message has no usable To address.
var ErrMissingRecipient = errors.New("mail: recipient required")

// Build renders msg as multipart/alternative with a single quoted-printable
// HTML part. Date and Message-ID are filled in when empty.
func Build(msg Message) ([]byte, error) {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return nil, ErrMissingRecipient
	}
	if _, err := netmail.ParseAddress(to); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient %q: %w", to, err)
	}
	date := msg.Date
	if date.IsZero() {
		date = time.Now()
	}
	messageID := strings.TrimSpace(msg.MessageID)
	if messageID == "" {
		messageID = NewMessageID(msg.From)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	var head bytes.Buffer
	if from := strings.TrimSpace(msg.From); from != "" {
		writeHeader(&head, "From", from)
	}
	writeHeader(&head, "To", to)
	writeHeader(&head, "Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader(&head, "Date", date.Format(time.RFC1123Z))
	writeHeader(&head, "Message-ID", messageID)
	writeHeader(&head, "MIME-Version", "1.0")
	writeHeader(&head, "Content-Type", mime.FormatMediaType("multipart/alternative", map[string]string{"boundary": writer.Boundary()}))
	head.WriteString("\r\n")

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Type", "text/html; charset=UTF-8")
	partHeader.Set("Content-Transfer-Encoding", "quoted-printable")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, fmt.Errorf("mail: create html part: %w", err)
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, fmt.Errorf("mail: encode html part: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("mail: encode html part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("mail: close multipart: %w", err)
	}

	head.Write(body.Bytes())
	return head.Bytes(), nil
}

// NewMessageID returns a unique Message-ID using the sender's domain.
func NewMessageID(from string) string {
	domain := "minutes.local"
	if addr, err := netmail.ParseAddress(strings.TrimSpace(from)); err == nil {
		if at := strings.LastIndex(addr.Address, "@"); at >= 0 && at < len(addr.Address)-1 {
			domain = addr.Address[at+1:]
		}
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

// FormatAddress renders a display name and address as a From header value.
func FormatAddress(name, address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}
	if name = strings.TrimSpace(name); name == "" {
		return address
	}
	return (&netmail.Address{Name: name, Address: address}).String()
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}
