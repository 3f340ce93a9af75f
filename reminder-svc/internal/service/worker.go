package service

import (
	"context"
	"log"
	"time"

	"bakery-preorder/notify"
)

type Claimer interface {
	Claim(ctx context.Context, now time.Time) ([]notify.Envelope, error)
}

type WorkerInterface interface {
	Start(ctx context.Context)
	RunOnce(ctx context.Context, now time.Time) int
}

// Worker delivers queued reminders once their send time has passed.
type Worker struct {
	Queue    Claimer
	Email    notify.EmailSender
	SMS      notify.SMSSender
	Interval time.Duration
	Timeout  time.Duration
	Now      func() time.Time
}

var _ WorkerInterface = (*Worker)(nil)

func NewWorker(queue Claimer, email notify.EmailSender, sms notify.SMSSender, interval, timeout time.Duration) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Worker{
		Queue:    queue,
		Email:    email,
		SMS:      sms,
		Interval: interval,
		Timeout:  timeout,
		Now:      time.Now,
	}
}

func (w *Worker) Start(ctx context.Context) {
	log.Printf("[reminder-svc] polling every %s", w.Interval)
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.RunOnce(ctx, w.Now())
	for {
		select {
		case <-ctx.Done():
			log.Println("[reminder-svc] stopping")
			return
		case <-ticker.C:
			w.RunOnce(ctx, w.Now())
		}
	}
}

// RunOnce claims every envelope due at now and delivers it. It returns the
// number of successful deliveries. Failed deliveries are not requeued.
func (w *Worker) RunOnce(ctx context.Context, now time.Time) int {
	envelopes, err := w.Queue.Claim(ctx, now)
	if err != nil {
		log.Printf("[reminder-svc] claim: %v", err)
	}

	sent := 0
	for _, env := range envelopes {
		if err := w.deliver(ctx, env); err != nil {
			log.Printf("[reminder-svc] dropping %s reminder %s: %v", env.Channel, env.ID, err)
			continue
		}
		sent++
	}
	if sent > 0 {
		log.Printf("[reminder-svc] delivered %d reminders", sent)
	}
	return sent
}

func (w *Worker) deliver(ctx context.Context, env notify.Envelope) error {
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	switch {
	case env.Channel == notify.ChannelEmail && env.Email != nil:
		msg := *env.Email
		msg.SendAt = time.Time{}
		_, err := w.Email.SendEmail(ctx, msg)
		return err
	case env.Channel == notify.ChannelSMS && env.SMS != nil:
		msg := *env.SMS
		msg.SendAt = time.Time{}
		_, err := w.SMS.SendSMS(ctx, msg)
		return err
	default:
		return errUnknownEnvelope
	}
}
