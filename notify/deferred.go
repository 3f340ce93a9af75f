package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const ReminderQueueKey = "reminders:due"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Envelope is one queued message. Exactly one of Email and SMS is set.
type Envelope struct {
	ID      string    `json:"id"`
	Channel Channel   `json:"channel"`
	SendAt  time.Time `json:"send_at"`
	Email   *Email    `json:"email,omitempty"`
	SMS     *SMS      `json:"sms,omitempty"`
}

// ReminderQueue keeps envelopes in a sorted set scored by send time. A hash
// at Key+":index" maps envelope ids to their sorted set member.
type ReminderQueue struct {
	Client *redis.Client
	Key    string
}

func NewReminderQueue(client *redis.Client) *ReminderQueue {
	return &ReminderQueue{Client: client, Key: ReminderQueueKey}
}

func (q *ReminderQueue) indexKey() string {
	return q.Key + ":index"
}

func (q *ReminderQueue) Enqueue(ctx context.Context, env Envelope) error {
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	_, err = q.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, q.Key, redis.Z{
			Score:  float64(env.SendAt.Unix()),
			Member: string(payload),
		})
		pipe.HSet(ctx, q.indexKey(), env.ID, string(payload))
		return nil
	})
	return err
}

// Cancel removes a queued envelope by id. Unknown or already claimed ids are
// not an error.
func (q *ReminderQueue) Cancel(ctx context.Context, id string) error {
	member, err := q.Client.HGet(ctx, q.indexKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up reminder %s: %w", id, err)
	}
	_, err = q.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, q.Key, member)
		pipe.HDel(ctx, q.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cancel reminder %s: %w", id, err)
	}
	return nil
}

// Claim removes and returns every envelope due at or before now. An entry is
// returned only to the caller whose ZREM removed it, so concurrent workers
// never deliver the same envelope twice.
func (q *ReminderQueue) Claim(ctx context.Context, now time.Time) ([]Envelope, error) {
	members, err := q.Client.ZRangeByScore(ctx, q.Key, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}

	var claimed []Envelope
	for _, member := range members {
		removed, err := q.Client.ZRem(ctx, q.Key, member).Result()
		if err != nil {
			return claimed, fmt.Errorf("claim reminder: %w", err)
		}
		if removed == 0 {
			continue
		}
		var env Envelope
		if err := json.Unmarshal([]byte(member), &env); err != nil {
			log.Printf("notify: dropping unreadable reminder %q: %v", member, err)
			continue
		}
		if err := q.Client.HDel(ctx, q.indexKey(), env.ID).Err(); err != nil {
			log.Printf("notify: clear index for reminder %s: %v", env.ID, err)
		}
		claimed = append(claimed, env)
	}
	return claimed, nil
}

func (q *ReminderQueue) Len(ctx context.Context) (int64, error) {
	return q.Client.ZCard(ctx, q.Key).Result()
}

type Enqueuer interface {
	Enqueue(ctx context.Context, env Envelope) error
	Cancel(ctx context.Context, id string) error
}

// DeferredEmailSender queues emails whose SendAt lies in the future and
// hands everything else straight to Next.
type DeferredEmailSender struct {
	Next  EmailSender
	Queue Enqueuer
	Now   func() time.Time
}

func NewDeferredEmailSender(next EmailSender, queue Enqueuer) *DeferredEmailSender {
	return &DeferredEmailSender{Next: next, Queue: queue, Now: time.Now}
}

func (s *DeferredEmailSender) Configured() bool {
	return configured(s.Next)
}

func (s *DeferredEmailSender) SendEmail(ctx context.Context, msg Email) (string, error) {
	if !msg.SendAt.After(s.Now()) {
		return s.Next.SendEmail(ctx, msg)
	}
	if !s.Configured() || msg.TemplateID == "" {
		return "", ErrEmailNotConfigured
	}
	env := Envelope{ID: uuid.NewString(), Channel: ChannelEmail, SendAt: msg.SendAt, Email: &msg}
	if err := s.Queue.Enqueue(ctx, env); err != nil {
		return "", fmt.Errorf("queue email: %w", err)
	}
	return env.ID, nil
}

// Cancel withdraws a message queued by SendEmail. Ids of messages that were
// sent immediately are ignored.
func (s *DeferredEmailSender) Cancel(ctx context.Context, id string) error {
	return s.Queue.Cancel(ctx, id)
}

type DeferredSMSSender struct {
	Next  SMSSender
	Queue Enqueuer
	Now   func() time.Time
}

func NewDeferredSMSSender(next SMSSender, queue Enqueuer) *DeferredSMSSender {
	return &DeferredSMSSender{Next: next, Queue: queue, Now: time.Now}
}

func (s *DeferredSMSSender) Configured() bool {
	return configured(s.Next)
}

func (s *DeferredSMSSender) SendSMS(ctx context.Context, msg SMS) (string, error) {
	if !msg.SendAt.After(s.Now()) {
		return s.Next.SendSMS(ctx, msg)
	}
	if !s.Configured() {
		return "", ErrSMSNotConfigured
	}
	env := Envelope{ID: uuid.NewString(), Channel: ChannelSMS, SendAt: msg.SendAt, SMS: &msg}
	if err := s.Queue.Enqueue(ctx, env); err != nil {
		return "", fmt.Errorf("queue sms: %w", err)
	}
	return env.ID, nil
}

func (s *DeferredSMSSender) Cancel(ctx context.Context, id string) error {
	return s.Queue.Cancel(ctx, id)
}

var (
	_ EmailSender = (*DeferredEmailSender)(nil)
	_ SMSSender   = (*DeferredSMSSender)(nil)
	_ Enqueuer    = (*ReminderQueue)(nil)
)
