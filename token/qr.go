package token

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRImage is a PNG encoded QR symbol.
type QRImage struct {
	PNG  []byte
	Size int
}

func (q QRImage) DataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(q.PNG)
}

type Encoder interface {
	Encode(content string) (QRImage, error)
}

var _ Encoder = &QREncoder{}

type QREncoder struct {
	level qrcode.RecoveryLevel
	size  int
}

// NewQREncoder takes a recovery level of L, M, Q or H and the image width in pixels.
func NewQREncoder(level string, size int) (*QREncoder, error) {
	recovery, err := parseRecoveryLevel(level)
	if err != nil {
		return nil, err
	}

	if size <= 0 {
		return nil, fmt.Errorf("qr size must be positive, got %d", size)
	}

	return &QREncoder{
		level: recovery,
		size:  size,
	}, nil
}

func parseRecoveryLevel(level string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "L":
		return qrcode.Low, nil
	case "M", "":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, fmt.Errorf("unknown qr recovery level: %q", level)
	}
}

func (e *QREncoder) Encode(content string) (QRImage, error) {
	png, err := qrcode.Encode(content, e.level, e.size)
	if err != nil {
		return QRImage{}, fmt.Errorf("failed to encode qr code: %w", err)
	}

	return QRImage{
		PNG:  png,
		Size: e.size,
	}, nil
}
