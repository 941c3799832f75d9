package tickets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeRoundTrip(t *testing.T) {
	in := CodePayload{BookingID: "b-1", EventID: "e-1", UserID: "u-1", SeatNumber: "C4"}

	out, err := DecodeCode(EncodeCode(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeCodeRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "!!!", "bm90IGpzb24=", "e30="} {
		_, err := DecodeCode(code)
		assert.ErrorIs(t, err, ErrInvalidCode, code)
	}
}

func TestRenderPDF(t *testing.T) {
	pdf, err := RenderPDF(TicketInfo{
		BookingID:   "b-1",
		EventName:   "Jazz Night",
		Date:        "2026-12-01",
		Time:        "20:00",
		Venue:       "Blue Hall",
		HolderName:  "Sam",
		SeatNumber:  "A1",
		TicketPrice: 55,
		Code:        EncodeCode(CodePayload{BookingID: "b-1", EventID: "e-1"}),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
