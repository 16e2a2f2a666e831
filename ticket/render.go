package ticket

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/International-Combat-Archery-Alliance/event-tickets/token"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	artifactNamespace = "tickets"

	headerHeight  = 42.0
	footerHeight  = 18.0
	sectionGap    = 6.0
	headingHeight = 10.0
	lineHeight    = 7.0
	qrImageName   = "ticket-qr"
	fontFamily    = "Go"
)

type ArtifactStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Read(ctx context.Context, location string) ([]byte, error)
}

// ArtifactKey is the storage key for a ticket document.
func ArtifactKey(id string) string {
	return fmt.Sprintf("%s/%s.pdf", artifactNamespace, id)
}

type Options struct {
	Compress     bool
	QRFraction   float64
	Footer       string
	BrandColor   [3]int
	WriteTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Compress:     true,
		QRFraction:   0.25,
		Footer:       "Powered by ICAA Tickets",
		BrandColor:   [3]int{76, 175, 80},
		WriteTimeout: 5 * time.Second,
	}
}

type Renderer struct {
	store ArtifactStore
	opts  Options
}

func NewRenderer(store ArtifactStore, opts Options) (*Renderer, error) {
	if opts.QRFraction <= 0 || opts.QRFraction > 0.5 {
		return nil, fmt.Errorf("qr fraction must be in (0, 0.5], got %v", opts.QRFraction)
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultOptions().WriteTimeout
	}

	return &Renderer{
		store: store,
		opts:  opts,
	}, nil
}

// Render lays out a single A4 page. The same registration, event and QR
// image always give the same bytes.
func (r *Renderer) Render(reg registration.Registration, event events.Event, qr token.QRImage) ([]byte, error) {
	content := BuildContent(reg, event, r.opts.Footer)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.opts.Compress)
	pdf.SetCreationDate(reg.RegisteredAt.UTC())
	pdf.SetModificationDate(reg.RegisteredAt.UTC())
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(fmt.Sprintf("Ticket %s", reg.ID), true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	brand := r.opts.BrandColor

	// header band
	pdf.SetFillColor(brand[0], brand[1], brand[2])
	pdf.Rect(0, 0, pageW, headerHeight, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(fontFamily, "B", 28)
	pdf.SetXY(0, 8)
	pdf.CellFormat(pageW, 14, content.Title, "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 16)
	pdf.CellFormat(pageW, 10, content.Subtitle, "", 1, "C", false, 0, "")

	pdf.SetTextColor(51, 51, 51)
	y := headerHeight + 10
	for _, section := range content.Sections {
		pdf.SetXY(0, y)
		pdf.SetFont(fontFamily, "BU", 20)
		pdf.CellFormat(pageW, headingHeight, section.Heading, "", 1, "C", false, 0, "")
		pdf.SetFont(fontFamily, "", 16)
		for _, line := range section.Lines {
			pdf.CellFormat(pageW, lineHeight, line, "", 1, "C", false, 0, "")
		}
		y = pdf.GetY() + sectionGap
	}

	pdf.SetXY(0, y)
	pdf.SetFont(fontFamily, "", 16)
	pdf.CellFormat(pageW, 8, content.ScanPrompt, "", 1, "C", false, 0, "")

	qrSize := pageW * r.opts.QRFraction
	qrY := pdf.GetY() + 4
	if limit := pageH - footerHeight - 4 - qrSize; qrY > limit {
		qrY = limit
	}
	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(qrImageName, imgOpts, bytes.NewReader(qr.PNG))
	pdf.ImageOptions(qrImageName, (pageW-qrSize)/2, qrY, qrSize, qrSize, false, imgOpts, 0, "")

	// footer band
	pdf.SetFillColor(brand[0], brand[1], brand[2])
	pdf.Rect(0, pageH-footerHeight, pageW, footerHeight, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(fontFamily, "", 14)
	pdf.SetXY(0, pageH-footerHeight)
	pdf.CellFormat(pageW, footerHeight, content.Footer, "", 0, "C", false, 0, "")

	if pdf.Err() {
		return nil, NewRenderFailedError(fmt.Sprintf("Failed to lay out ticket %q", reg.ID), pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderFailedError(fmt.Sprintf("Failed to write ticket %q", reg.ID), err)
	}

	return buf.Bytes(), nil
}

// Store writes the rendered ticket under its ticket id and returns the location.
func (r *Renderer) Store(ctx context.Context, id string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()

	location, err := r.store.Write(ctx, ArtifactKey(id), data)
	if err != nil {
		return "", NewArtifactWriteFailedError(fmt.Sprintf("Failed to store ticket %q", id), err)
	}

	return location, nil
}
