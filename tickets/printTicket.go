package tickets

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// TicketInfo is everything printed on a ticket.
type TicketInfo struct {
	BookingID   string
	EventName   string
	Date        string
	Time        string
	Venue       string
	HolderName  string
	SeatNumber  string
	TicketPrice float64
	Code        string
}

// RenderPDF draws an A4 ticket with the entry code as a QR image.
func RenderPDF(info TicketInfo) ([]byte, error) {
	qrPNG, err := qrcode.Encode(info.Code, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "EventSpark Ticket")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	lines := []string{
		fmt.Sprintf("Event: %s", info.EventName),
		fmt.Sprintf("When: %s %s", info.Date, info.Time),
		fmt.Sprintf("Venue: %s", info.Venue),
		fmt.Sprintf("Name: %s", info.HolderName),
		fmt.Sprintf("Seat: %s", info.SeatNumber),
		fmt.Sprintf("Price: %.2f", info.TicketPrice),
		fmt.Sprintf("Booking: %s", info.BookingID),
	}
	for _, line := range lines {
		pdf.Cell(0, 10, line)
		pdf.Ln(8)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
