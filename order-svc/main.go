package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"bakery-preorder/config"
	"bakery-preorder/notify"
	httpapi "bakery-preorder/order-svc/internal/api/http"
	"bakery-preorder/order-svc/internal/service"
	"bakery-preorder/order-svc/internal/storage"

	"github.com/redis/go-redis/v9"
)

func main() {
	config.LoadEnv()
	ctx := context.Background()
	loc := config.Location()

	var rdb *redis.Client
	redisClient := func() *redis.Client {
		if rdb == nil {
			rdb = config.MustInitRedis()
		}
		return rdb
	}

	source, closeSource, err := newCatalogSource(ctx, config.GetEnv("CATALOG_SOURCE", "static"), config.GetEnv("CATALOG_FILE", "menu.yaml"))
	if err != nil {
		log.Fatal("Failed to configure catalog:", err)
	}
	catalog, err := service.NewCatalogService(ctx, source)
	closeSource()
	if err != nil {
		log.Fatal("Failed to load catalog:", err)
	}
	log.Printf("[order-svc] catalog loaded: %d items in %d categories", len(catalog.List(service.CatalogFilter{IncludeUnavailable: true})), len(catalog.Categories()))

	sessionKind := config.GetEnv("SESSION_STORE", "memory")
	sessionTTL := config.GetDuration("SESSION_TTL", 24*time.Hour)
	store, err := newSessionStore(ctx, sessionKind, sessionTTL, redisClient)
	if err != nil {
		log.Fatal("Failed to configure sessions:", err)
	}

	notifyTimeout := config.GetDuration("NOTIFY_TIMEOUT", 10*time.Second)
	emailClient := notify.NewEmailJSClient(notify.EmailJSConfigFromEnv(), notifyTimeout)
	smsClient := notify.NewTwilioSenderFromEnv()
	if !emailClient.Configured() {
		log.Println("[order-svc] WARNING: EmailJS credentials missing, order submissions will fail")
	}

	// Reminders are queued in Redis whenever sessions are, unless overridden.
	email, sms, err := newSenders(config.GetEnv("REMINDER_QUEUE", sessionKind), emailClient, smsClient, redisClient)
	if err != nil {
		log.Fatal("Failed to configure reminders:", err)
	}

	writer := config.NewKafkaWriter(config.GetEnv("ORDERS_TOPIC", "orders"))
	if writer != nil {
		defer writer.Close()
	}
	publisher := storage.NewKafkaPublisher(writer)

	qr := service.DefaultQRGenerator{BaseURL: config.GetEnv("PUBLIC_BASE_URL", "http://localhost:8080")}

	submitter := service.NewOrderSubmitter(email, sms, publisher, qr, service.SubmitterConfig{
		OrderTemplateID:    config.GetEnv("ORDER_TEMPLATE_ID", ""),
		ReminderTemplateID: config.GetEnv("REMINDER_TEMPLATE_ID", ""),
		BusinessName:       config.GetEnv("BUSINESS_NAME", "Jilicious Treats"),
		Location:           loc,
		NotifyTimeout:      notifyTimeout,
	})
	sessions := service.NewSessionService(store, catalog, submitter, service.SessionConfig{
		Location:    loc,
		HorizonDays: config.GetInt("PICKUP_HORIZON_DAYS", 14),
	})
	inquiries := service.NewInquiryService(email, service.InquiryConfig{
		OwnerEmail:          config.GetEnv("OWNER_EMAIL", ""),
		BulkOrderTemplateID: config.GetEnv("BULK_ORDER_TEMPLATE_ID", ""),
		ContactTemplateID:   config.GetEnv("CONTACT_TEMPLATE_ID", ""),
		NotifyTimeout:       notifyTimeout,
	})

	handler := httpapi.NewHandler(catalog, sessions, inquiries, service.NewContentService(), qr)
	handler.Location = loc

	httpapi.StartServer(config.GetEnv("ORDER_SVC_ADDR", ":8081"), httpapi.NewRouter(handler))
}

func newCatalogSource(ctx context.Context, kind, file string) (service.CatalogSource, func(), error) {
	noop := func() {}
	switch kind {
	case "static", "":
		return storage.StaticCatalog{}, noop, nil
	case "yaml":
		return storage.NewYAMLCatalog(file), noop, nil
	case "postgres":
		db := config.MustInitPostgres()
		pg := storage.NewPostgresCatalog(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		return pg, func() { db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown CATALOG_SOURCE %q", kind)
	}
}

func newSessionStore(ctx context.Context, kind string, ttl time.Duration, redisClient func() *redis.Client) (service.SessionStore, error) {
	switch kind {
	case "memory", "":
		store := storage.NewMemorySessionStore(ttl)
		go sweepSessions(ctx, store, time.Minute)
		return store, nil
	case "redis":
		return storage.NewRedisSessionStore(redisClient(), ttl), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", kind)
	}
}

// newSenders wraps the providers in deferred senders when kind is "redis".
// Any of "memory", "none" or "" sends reminders immediately.
func newSenders(kind string, email notify.EmailSender, sms notify.SMSSender, redisClient func() *redis.Client) (service.EmailSender, service.SMSSender, error) {
	switch kind {
	case "redis":
		queue := notify.NewReminderQueue(redisClient())
		return notify.NewDeferredEmailSender(email, queue), notify.NewDeferredSMSSender(sms, queue), nil
	case "memory", "none", "":
		log.Println("[order-svc] WARNING: reminder queue disabled, reminders are sent immediately")
		return email, sms, nil
	default:
		return nil, nil, fmt.Errorf("unknown REMINDER_QUEUE %q", kind)
	}
}

func sweepSessions(ctx context.Context, store *storage.MemorySessionStore, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				log.Printf("[order-svc] expired %d sessions", n)
			}
		}
	}
}
