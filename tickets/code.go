package tickets

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// CodePayload is what an entry code carries. The code is plain base64 JSON
// and is not signed; a scanner must confirm it against the stored booking.
type CodePayload struct {
	BookingID  string `json:"bookingId"`
	EventID    string `json:"eventId"`
	UserID     string `json:"userId"`
	SeatNumber string `json:"seatNumber"`
}

var ErrInvalidCode = errors.New("invalid ticket code")

func EncodeCode(p CodePayload) string {
	data, _ := json.Marshal(p)
	return base64.StdEncoding.EncodeToString(data)
}

func DecodeCode(code string) (CodePayload, error) {
	var p CodePayload
	raw, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return p, ErrInvalidCode
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, ErrInvalidCode
	}
	if p.BookingID == "" || p.EventID == "" {
		return p, ErrInvalidCode
	}
	return p, nil
}
