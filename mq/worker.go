package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"eventspark/models"
	"eventspark/tickets"

	"github.com/redis/go-redis/v9"
)

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Mail struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer delivers a rendered mail.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// LogMailer writes mails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Mail) error {
	log.Printf("[Mail] to=%s subject=%q attachments=%d", m.To, m.Subject, len(m.Attachments))
	return nil
}

func confirmationMail(msg models.BookingConfirmation) (Mail, error) {
	pdf, err := tickets.RenderPDF(tickets.TicketInfo{
		BookingID:   msg.BookingID,
		EventName:   msg.EventName,
		Date:        msg.Date,
		Time:        msg.Time,
		Venue:       msg.Venue,
		HolderName:  msg.Name,
		SeatNumber:  msg.SeatNumber,
		TicketPrice: msg.TicketPrice,
		Code:        msg.QRCode,
	})
	if err != nil {
		return Mail{}, err
	}

	body := fmt.Sprintf("Hi %s,\n\nYour booking for %s is confirmed.\nSeat: %s\nPrice: $%.2f\nWhen: %s %s\nVenue: %s\n\nShow the attached ticket at the entrance.",
		msg.Name, msg.EventName, msg.SeatNumber, msg.TicketPrice, msg.Date, msg.Time, msg.Venue)

	return Mail{
		To:      msg.Email,
		Subject: fmt.Sprintf("Booking Confirmation - %s", msg.EventName),
		Body:    body,
		Attachments: []Attachment{{
			Name:        fmt.Sprintf("ticket-%s.pdf", msg.BookingID),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	}, nil
}

func roleChangeMail(msg models.RoleChange) Mail {
	return Mail{
		To:      msg.Email,
		Subject: fmt.Sprintf("Your EventSpark role has been updated to %s", msg.Role),
		Body:    fmt.Sprintf("Your role on EventSpark has been changed. You are now an %s.", msg.Role),
	}
}

// handle turns one pub/sub payload into a delivered mail.
func handle(ctx context.Context, mailer Mailer, channel, payload string) error {
	var m Mail
	switch channel {
	case ConfirmationsChannel:
		var msg models.BookingConfirmation
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return fmt.Errorf("parse confirmation: %w", err)
		}
		mail, err := confirmationMail(msg)
		if err != nil {
			return fmt.Errorf("render ticket for %s: %w", msg.BookingID, err)
		}
		m = mail
	case RoleChangesChannel:
		var msg models.RoleChange
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return fmt.Errorf("parse role change: %w", err)
		}
		m = roleChangeMail(msg)
	default:
		return fmt.Errorf("unknown channel %q", channel)
	}
	return mailer.Send(ctx, m)
}

// StartNotificationWorker delivers published notifications until ctx ends.
func StartNotificationWorker(ctx context.Context, rdb *redis.Client, mailer Mailer) {
	sub := rdb.Subscribe(ctx, ConfirmationsChannel, RoleChangesChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for notifications...")

	for {
		select {
		case <-ctx.Done():
			log.Println("[NotificationWorker] stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := handle(ctx, mailer, msg.Channel, msg.Payload); err != nil {
				log.Printf("[NotificationWorker] %v", err)
			}
		}
	}
}
