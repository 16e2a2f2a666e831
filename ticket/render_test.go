package ticket

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/International-Combat-Archery-Alliance/event-tickets/token"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockArtifactStore struct {
	WriteFunc func(ctx context.Context, key string, data []byte) (string, error)
	ReadFunc  func(ctx context.Context, location string) ([]byte, error)
}

func (m *mockArtifactStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	return m.WriteFunc(ctx, key, data)
}

func (m *mockArtifactStore) Read(ctx context.Context, location string) ([]byte, error) {
	return m.ReadFunc(ctx, location)
}

var testEvent = events.Event{
	Key:   "DevCon",
	Name:  "DevCon",
	Dates: "March 15 - 16, 2025",
	Times: "08:00 AM - 5:00 PM (IST)",
	EventLocation: events.Location{
		Name: "M Weddings & Conventions",
		LocAddress: events.Address{
			Street:     "98/99, Vanagaram-Ambattur Road",
			City:       "Vanagaram, Chennai",
			State:      "Tamil Nadu",
			PostalCode: "600095",
			Country:    "India",
		},
	},
}

var testRegistration = registration.Registration{
	ID:           "T1",
	Version:      2,
	RegisteredAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	Name:         "Ada",
	Email:        "ada@x.com",
	EventName:    "DevCon",
	Contact:      "555-0100",
	Role:         "Speaker",
	QRToken:      "ada@x.com-T1",
}

func testQR(t *testing.T) token.QRImage {
	t.Helper()
	enc, err := token.NewQREncoder("M", 256)
	require.NoError(t, err)
	img, err := enc.Encode(testRegistration.QRToken)
	require.NoError(t, err)
	return img
}

func uncompressedRenderer(t *testing.T, store ArtifactStore) *Renderer {
	t.Helper()
	opts := DefaultOptions()
	opts.Compress = false
	r, err := NewRenderer(store, opts)
	require.NoError(t, err)
	return r
}

func TestOrderDisplayID(t *testing.T) {
	assert.Equal(t, "T11", OrderDisplayID("T1"))
	assert.Equal(t, "65f0c1a21", OrderDisplayID("65f0c1a2"))
}

func TestBuildContent(t *testing.T) {
	content := BuildContent(testRegistration, testEvent, "Powered by ICAA Tickets")

	want := Content{
		Title:    "DevCon",
		Subtitle: "March 15 - 16, 2025, 08:00 AM - 5:00 PM (IST)",
		Sections: []Section{
			{
				Heading: "Attendee Information",
				Lines:   []string{"Name: Ada", "Email: ada@x.com", "Role: Speaker"},
			},
			{
				Heading: "Order Details",
				Lines:   []string{"Order ID: T11", "Ticket ID: T1"},
			},
			{
				Heading: "Event Venue",
				Lines: []string{
					"M Weddings & Conventions",
					"98/99, Vanagaram-Ambattur Road",
					"Vanagaram, Chennai, Tamil Nadu - 600095, India",
				},
			},
		},
		ScanPrompt: "Scan this QR code at entry:",
		Footer:     "Powered by ICAA Tickets",
	}

	if diff := cmp.Diff(want, content); diff != "" {
		t.Errorf("BuildContent() mismatch (-want +got):\n%s", diff)
	}
}

// pdfText is how a centred cell string appears in an uncompressed content
// stream with a UTF-8 font: UTF-16BE inside an escaped string literal.
func pdfText(s string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, u := range utf16.Encode([]rune(s)) {
		for _, c := range []byte{byte(u >> 8), byte(u)} {
			switch c {
			case '\\', '(', ')':
				b.WriteByte('\\')
				b.WriteByte(c)
			case '\r':
				b.WriteString("\\r")
			default:
				b.WriteByte(c)
			}
		}
	}
	b.WriteString(")Tj")
	return b.String()
}

func waitForNextSecond() {
	now := time.Now()
	time.Sleep(now.Truncate(time.Second).Add(time.Second + 50*time.Millisecond).Sub(now))
}

func TestRender(t *testing.T) {
	qr := testQR(t)

	t.Run("single page with registrant fields", func(t *testing.T) {
		r := uncompressedRenderer(t, nil)

		doc, err := r.Render(testRegistration, testEvent, qr)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
		assert.Contains(t, string(doc), "/Count 1")
		for _, text := range []string{
			"DevCon",
			"Attendee Information",
			"Name: Ada",
			"Email: ada@x.com",
			"Role: Speaker",
			"Order ID: T11",
			"Ticket ID: T1",
			"Event Venue",
			"Scan this QR code at entry:",
			"Powered by ICAA Tickets",
		} {
			assert.Contains(t, string(doc), pdfText(text), text)
		}
	})

	t.Run("same inputs give identical bytes across clock seconds", func(t *testing.T) {
		r := uncompressedRenderer(t, nil)

		first, err := r.Render(testRegistration, testEvent, qr)
		require.NoError(t, err)
		waitForNextSecond()
		second, err := r.Render(testRegistration, testEvent, qr)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(first, second))
		assert.Contains(t, string(first), "/ModDate (D:20250301100000")
	})

	t.Run("compressed output is deterministic too", func(t *testing.T) {
		r, err := NewRenderer(nil, DefaultOptions())
		require.NoError(t, err)

		first, err := r.Render(testRegistration, testEvent, qr)
		require.NoError(t, err)
		waitForNextSecond()
		second, err := r.Render(testRegistration, testEvent, qr)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("names outside latin-1 are printed as stored", func(t *testing.T) {
		r := uncompressedRenderer(t, nil)
		reg := testRegistration
		reg.Name = "李雷 Ωmega"

		doc, err := r.Render(reg, testEvent, qr)
		require.NoError(t, err)
		assert.Contains(t, string(doc), pdfText("Name: 李雷 Ωmega"))
		assert.NotContains(t, string(doc), pdfText("Name: .. .mega"))
	})

	t.Run("corrupt qr image is a render error", func(t *testing.T) {
		r := uncompressedRenderer(t, nil)

		_, err := r.Render(testRegistration, testEvent, token.QRImage{PNG: []byte("not a png")})
		var ticketErr *Error
		require.True(t, errors.As(err, &ticketErr))
		assert.Equal(t, REASON_RENDER_FAILED, ticketErr.Reason)
	})
}

func TestNewRenderer(t *testing.T) {
	for _, fraction := range []float64{0, -0.1, 0.75} {
		opts := DefaultOptions()
		opts.QRFraction = fraction
		_, err := NewRenderer(nil, opts)
		assert.Error(t, err, "fraction %v", fraction)
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("writes under the ticket id", func(t *testing.T) {
		var gotKey string
		var hadDeadline bool
		store := &mockArtifactStore{
			WriteFunc: func(ctx context.Context, key string, data []byte) (string, error) {
				gotKey = key
				_, hadDeadline = ctx.Deadline()
				return "file:///data/" + key, nil
			},
		}
		r := uncompressedRenderer(t, store)

		location, err := r.Store(ctx, "T1", []byte("%PDF-"))
		require.NoError(t, err)
		assert.Equal(t, "tickets/T1.pdf", gotKey)
		assert.Equal(t, "file:///data/tickets/T1.pdf", location)
		assert.True(t, hadDeadline)
	})

	t.Run("write failure", func(t *testing.T) {
		store := &mockArtifactStore{
			WriteFunc: func(ctx context.Context, key string, data []byte) (string, error) {
				return "", errors.New("disk full")
			},
		}
		r := uncompressedRenderer(t, store)

		_, err := r.Store(ctx, "T1", []byte("%PDF-"))
		var ticketErr *Error
		require.True(t, errors.As(err, &ticketErr))
		assert.Equal(t, REASON_ARTIFACT_WRITE_FAILED, ticketErr.Reason)
	})
}
