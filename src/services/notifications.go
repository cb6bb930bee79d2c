package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"uservice/src/lib"
	"uservice/src/models"
	"uservice/src/types"
)

// Notifier delivers customer-facing emails. Failures are logged, never returned
// to the request that triggered them.
type Notifier interface {
	BookingCreated(booking *models.Booking, customer *models.User)
	BookingStatusChanged(booking *models.Booking, customer *models.User)
	EventReminder(booking *models.Booking, customer *models.User)
	PasswordReset(user *models.User, token string)
	EmailVerification(user *models.User, token string)
}

type MailNotifier struct {
	mailer      lib.Mailer
	from        string
	fromName    string
	frontendURL string
	timeout     time.Duration
}

func NewMailNotifier(mailer lib.Mailer, from, fromName, frontendURL string) *MailNotifier {
	return &MailNotifier{
		mailer:      mailer,
		from:        from,
		fromName:    fromName,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		timeout:     30 * time.Second,
	}
}

func (n *MailNotifier) send(to, subject, body string) {
	input := &lib.SendMailInput{
		From:     n.from,
		FromName: n.fromName,
		To:       []string{to},
		Subject:  subject,
		Body:     body,
		Html:     true,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.mailer.Send(ctx, input); err != nil {
			log.Printf("[Mail] error sending %q to %s: %s\n", subject, to, err.Error())
		}
	}()
}

func (n *MailNotifier) BookingCreated(b *models.Booking, customer *models.User) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received your booking <b>%s</b> for %s on %s. We will confirm it shortly.</p>",
		customer.FirstName, b.BookingID, b.Event.Type, b.Event.Date.UTC().Format(types.DATE_FORMAT),
	)
	n.send(customer.Email, fmt.Sprintf("Booking %s received", b.BookingID), body)
}

func (n *MailNotifier) BookingStatusChanged(b *models.Booking, customer *models.User) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your booking <b>%s</b> is now <b>%s</b>.</p>",
		customer.FirstName, b.BookingID, b.Status,
	)
	n.send(customer.Email, fmt.Sprintf("Booking %s %s", b.BookingID, b.Status), body)
}

func (n *MailNotifier) EventReminder(b *models.Booking, customer *models.User) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>This is a reminder that your %s (booking <b>%s</b>) is on %s.</p>",
		customer.FirstName, b.Event.Type, b.BookingID, b.Event.Date.UTC().Format(types.DATE_FORMAT),
	)
	n.send(customer.Email, fmt.Sprintf("Upcoming event %s", b.BookingID), body)
}

func (n *MailNotifier) PasswordReset(u *models.User, token string) {
	link := fmt.Sprintf("%s/reset-password?token=%s", n.frontendURL, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Use <a href=\"%s\">this link</a> to reset your password. It expires in one hour.</p>",
		u.FirstName, link,
	)
	n.send(u.Email, "Reset your password", body)
}

func (n *MailNotifier) EmailVerification(u *models.User, token string) {
	link := fmt.Sprintf("%s/verify-email?token=%s", n.frontendURL, token)
	body := fmt.Sprintf(
		"<p>Welcome %s,</p><p>Please <a href=\"%s\">verify your email address</a>.</p>",
		u.FirstName, link,
	)
	n.send(u.Email, "Verify your email", body)
}
