package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakery-preorder/config"
	"bakery-preorder/notify"
	"bakery-preorder/reminder-svc/internal/service"
)

func main() {
	config.LoadEnv()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	timeout := config.GetDuration("NOTIFY_TIMEOUT", 10*time.Second)
	email := notify.NewEmailJSClient(notify.EmailJSConfigFromEnv(), timeout)
	sms := notify.NewTwilioSenderFromEnv()
	if !email.Configured() {
		log.Println("[reminder-svc] WARNING: EmailJS credentials missing, email reminders will be dropped")
	}
	if !sms.Configured() {
		log.Println("[reminder-svc] WARNING: Twilio credentials missing, text reminders will be dropped")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := service.NewWorker(
		notify.NewReminderQueue(rdb),
		email,
		sms,
		config.GetDuration("REMINDER_POLL_INTERVAL", 30*time.Second),
		timeout,
	)
	worker.Start(ctx)
}
