package service

import (
	"context"
	"errors"
	"log"

	"marketplace-backend/internal/models"
)

const (
	emailJobVerification  = "verification"
	emailJobPasswordReset = "password_reset"
)

type emailJob struct {
	kind string
	user models.User
}

// EmailWorker queues account emails onto a buffered channel and delivers
// them from a background goroutine, keeping SMTP round trips off the
// request path. It satisfies MailSender by enqueuing.
type EmailWorker struct {
	mailer *MailerService
	jobs   chan emailJob
}

func NewEmailWorker(mailer *MailerService) *EmailWorker {
	return &EmailWorker{
		mailer: mailer,
		jobs:   make(chan emailJob, 100),
	}
}

// SendVerificationEmail enqueues a verification email for delivery
func (w *EmailWorker) SendVerificationEmail(user *models.User) error {
	return w.enqueue(emailJob{kind: emailJobVerification, user: *user})
}

// SendPasswordResetEmail enqueues a password reset email for delivery
func (w *EmailWorker) SendPasswordResetEmail(user *models.User) error {
	return w.enqueue(emailJob{kind: emailJobPasswordReset, user: *user})
}

func (w *EmailWorker) enqueue(job emailJob) error {
	select {
	case w.jobs <- job:
		return nil
	default:
		return errors.New("email queue is full")
	}
}

// Start begins the background worker that delivers queued emails.
// It returns when the context is cancelled.
func (w *EmailWorker) Start(ctx context.Context) {
	log.Println("Email worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("Email worker stopped")
			return
		case job := <-w.jobs:
			w.deliver(job)
		}
	}
}

func (w *EmailWorker) deliver(job emailJob) {
	var err error
	switch job.kind {
	case emailJobVerification:
		err = w.mailer.SendVerificationEmail(&job.user)
	case emailJobPasswordReset:
		err = w.mailer.SendPasswordResetEmail(&job.user)
	}
	if err != nil {
		log.Printf("Error delivering %s email to %s: %v", job.kind, job.user.Email, err)
	}
}
