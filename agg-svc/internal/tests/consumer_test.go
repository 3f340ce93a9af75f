package tests

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bakery-preorder/agg-svc/internal/domain"
	"bakery-preorder/agg-svc/internal/mocks"
	"bakery-preorder/agg-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func orderMessage() domain.OrderMessage {
	return domain.OrderMessage{
		Type:      domain.OrderPlaced,
		Reference: "BK-0000ABCD",
		Items: []domain.OrderItem{
			{ItemID: "chocolate-chip-cookies", Name: "Chocolate Chip Cookies", Quantity: 2},
			{ItemID: "sourdough-bread", Name: "Classic Sourdough", Quantity: 1},
		},
		Total:     "15.50",
		Timestamp: time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestConsumer_ProcessOrder(t *testing.T) {
	tests := []struct {
		name           string
		inputMessage   domain.OrderMessage
		setupMockStore func(*mocks.StoreInterface)
	}{
		{
			name:         "success",
			inputMessage: orderMessage(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", mock.Anything, "BK-0000ABCD").Return(false, nil).Once()
				mockStore.On("RecordOrder", mock.Anything, orderMessage()).Return(nil).Once()
			},
		},
		{
			name:         "already counted",
			inputMessage: orderMessage(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", mock.Anything, "BK-0000ABCD").Return(true, nil).Once()
			},
		},
		{
			name:         "Seen error",
			inputMessage: orderMessage(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", mock.Anything, "BK-0000ABCD").Return(false, errors.New("redis timeout")).Once()
			},
		},
		{
			name:         "RecordOrder error",
			inputMessage: orderMessage(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", mock.Anything, "BK-0000ABCD").Return(false, nil).Once()
				mockStore.On("RecordOrder", mock.Anything, mock.Anything).Return(errors.New("redis error")).Once()
			},
		},
		{
			name:           "missing reference",
			inputMessage:   domain.OrderMessage{Type: domain.OrderPlaced, Items: orderMessage().Items},
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
		{
			name:           "no items",
			inputMessage:   domain.OrderMessage{Type: domain.OrderPlaced, Reference: "BK-0000ABCD"},
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := &service.Consumer{
				Store: mockStore,
			}

			consumer.ProcessOrder(context.Background(), testCase.inputMessage)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestConsumer_InvalidMessageType(t *testing.T) {
	mockStore := mocks.NewStoreInterface(t)
	consumer := &service.Consumer{
		Store: mockStore,
	}

	message := orderMessage()
	message.Type = "order_cancelled"

	consumer.ProcessOrder(context.Background(), message)
	mockStore.AssertNotCalled(t, "Seen")
	mockStore.AssertNotCalled(t, "RecordOrder")
}

// scriptedReader replays its messages and then blocks until the context ends.
type scriptedReader struct {
	messages []kafka.Message
	errs     []error
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return kafka.Message{}, err
	}
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		return msg, nil
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func TestConsumer_Start(t *testing.T) {
	payload, err := json.Marshal(orderMessage())
	assert.NoError(t, err)

	reader := &scriptedReader{
		errs: []error{errors.New("broker unavailable")},
		messages: []kafka.Message{
			{Value: []byte(`{not json`)},
			{Value: payload},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("Seen", mock.Anything, "BK-0000ABCD").Return(false, nil).Once()
	mockStore.On("RecordOrder", mock.Anything, mock.Anything).Return(nil).Once().
		Run(func(mock.Arguments) { cancel() })

	done := make(chan struct{})
	go func() {
		service.NewConsumer(reader, mockStore).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}
