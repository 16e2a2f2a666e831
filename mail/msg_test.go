package mail

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	netmail "net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() Message {
	return Message{
		FromAddress: "ICAA <tickets@icaa.world>",
		ToAddresses: []string{"ada@x.com"},
		Subject:     "🎉 DevCon - Your Ticket Confirmation",
		HTMLBody:    `<p>Hello <strong>Ada</strong></p><img src="cid:qrcode"/>`,
		TextBody:    "Hello Ada",
		Attachments: []Attachment{
			{Name: "QRCode.png", ContentType: "image/png", Data: []byte("png-bytes"), InlineID: "qrcode"},
			{Name: "T1.pdf", ContentType: "application/pdf", Data: bytes.Repeat([]byte("%PDF-"), 40)},
		},
	}
}

type leafPart struct {
	mediaType  string
	parentType string
	header     map[string][]string
	body       []byte
}

func header(p leafPart, key string) string {
	if v := p.header[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// collectLeaves walks a multipart tree and returns the non-multipart parts.
// Quoted-printable bodies come back decoded; base64 bodies are decoded here.
func collectLeaves(t *testing.T, r io.Reader, boundary string, parentType string) []leafPart {
	t.Helper()
	var leaves []leafPart
	mr := multipart.NewReader(r, boundary)
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return leaves
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p)
		require.NoError(t, err)

		mediaType, params, err := mime.ParseMediaType(p.Header.Get("Content-Type"))
		require.NoError(t, err)

		if strings.HasPrefix(mediaType, "multipart/") {
			leaves = append(leaves, collectLeaves(t, bytes.NewReader(body), params["boundary"], mediaType)...)
			continue
		}

		if strings.EqualFold(p.Header.Get("Content-Transfer-Encoding"), "base64") {
			body = decodeBase64Lines(t, body)
		}
		leaves = append(leaves, leafPart{
			mediaType:  mediaType,
			parentType: parentType,
			header:     p.Header,
			body:       body,
		})
	}
}

func findLeaf(t *testing.T, leaves []leafPart, mediaType string) leafPart {
	t.Helper()
	for _, l := range leaves {
		if l.mediaType == mediaType {
			return l
		}
	}
	require.Failf(t, "missing part", "no %s part in message", mediaType)
	return leafPart{}
}

func TestRawMessage(t *testing.T) {
	raw, err := rawMessage(testMessage())
	require.NoError(t, err)

	msg, err := netmail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "🎉 DevCon - Your Ticket Confirmation", subject)

	to, err := msg.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "ada@x.com", to[0].Address)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	leaves := collectLeaves(t, msg.Body, params["boundary"], mediaType)
	require.Len(t, leaves, 4)

	text := findLeaf(t, leaves, "text/plain")
	assert.Equal(t, "Hello Ada", strings.TrimRight(string(text.body), "\r\n"))

	html := findLeaf(t, leaves, "text/html")
	assert.Contains(t, string(html.body), `src="cid:qrcode"`)

	inline := findLeaf(t, leaves, "image/png")
	assert.Equal(t, "multipart/related", inline.parentType)
	assert.Equal(t, "qrcode", strings.Trim(header(inline, "Content-Id"), "<>"))
	assert.True(t, strings.HasPrefix(header(inline, "Content-Disposition"), "inline"))
	assert.Equal(t, []byte("png-bytes"), inline.body)

	pdf := findLeaf(t, leaves, "application/pdf")
	assert.Equal(t, "multipart/mixed", pdf.parentType)
	disposition, dispParams, err := mime.ParseMediaType(header(pdf, "Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "T1.pdf", dispParams["filename"])
	assert.Equal(t, bytes.Repeat([]byte("%PDF-"), 40), pdf.body)
}

func TestRawMessageTextOnly(t *testing.T) {
	m := testMessage()
	m.HTMLBody = ""
	m.Attachments = nil

	raw, err := rawMessage(m)
	require.NoError(t, err)

	msg, err := netmail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	mediaType, _, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mediaType)
}

func TestRawMessageRequiresAddresses(t *testing.T) {
	tests := []struct {
		name   string
		modify func(m *Message)
	}{
		{name: "no from", modify: func(m *Message) { m.FromAddress = "" }},
		{name: "no recipients", modify: func(m *Message) { m.ToAddresses = nil }},
		{name: "bad recipient", modify: func(m *Message) { m.ToAddresses = []string{"not an address"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMessage()
			tt.modify(&m)
			_, err := rawMessage(m)
			assert.Error(t, err)
		})
	}
}

func decodeBase64Lines(t *testing.T, body []byte) []byte {
	t.Helper()
	joined := strings.NewReplacer("\r", "", "\n", "").Replace(string(body))
	decoded, err := base64.StdEncoding.DecodeString(joined)
	require.NoError(t, err)
	return decoded
}
