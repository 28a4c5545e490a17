package listener

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/orderflow-service/internal/events"
	"github.com/fekuna/orderflow-service/internal/inventory"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type queueReader struct {
	msgs chan kafka.Message
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-q.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

type deductCall struct {
	companyID string
	order     events.OrderPayload
}

type stubUseCase struct {
	inventory.UseCase
	mu    sync.Mutex
	calls []deductCall
}

func (s *stubUseCase) DeductForOrder(_ context.Context, companyID string, order events.OrderPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, deductCall{companyID: companyID, order: order})
	return nil
}

func (s *stubUseCase) snapshot() []deductCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]deductCall(nil), s.calls...)
}

func message(t *testing.T, eventType, status string) kafka.Message {
	t.Helper()
	e, err := events.New(eventType, "c-1", "o-1", events.OrderPayload{
		ID:          "o-1",
		OrderNumber: "ORD-1",
		Status:      status,
		Items:       []events.OrderItemPayload{{ProductID: "p-1", Quantity: 2}},
	})
	require.NoError(t, err)
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	return kafka.Message{Value: raw}
}

func TestListenerDeductsOnlyForConfirmedOrders(t *testing.T) {
	reader := &queueReader{msgs: make(chan kafka.Message, 4)}
	uc := &stubUseCase{}
	l := NewInventoryListener(reader, uc, logger.NewNop())

	reader.msgs <- kafka.Message{Value: []byte("not json")}
	reader.msgs <- message(t, events.TypeOrderCreated, "draft")
	reader.msgs <- message(t, events.TypeOrderStatusChanged, "pending")
	reader.msgs <- message(t, events.TypeOrderStatusChanged, "confirmed")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(uc.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	calls := uc.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "c-1", calls[0].companyID)
	assert.Equal(t, "ORD-1", calls[0].order.OrderNumber)
	assert.Equal(t, 2, calls[0].order.Items[0].Quantity)
}
