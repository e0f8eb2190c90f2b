package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

type fakeReader struct {
	messages []kafka.Message
	closed   bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestProducer_Publish(t *testing.T) {
	writer := &MockWriter{}
	producer := &Producer{writer: writer, log: logger.NewNop()}

	ctx := context.Background()
	event := ReferenceEvent{Type: EventAirline, Airline: &domain.Airline{IataCode: "DL", Name: "Delta Air Lines"}}

	writer.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		decoded, err := DecodeReferenceEvent(msgs[0].Value)
		return err == nil &&
			msgs[0].Topic == "reference-updates" &&
			string(msgs[0].Key) == "airline:DL" &&
			decoded.Airline.Name == "Delta Air Lines"
	})).Return(nil)

	err := producer.Publish(ctx, "reference-updates", event.Key(), event)

	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestProducer_PublishWithRetry(t *testing.T) {
	writer := &MockWriter{}
	producer := &Producer{writer: writer, log: logger.NewNop()}

	ctx := context.Background()
	writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("leader not available")).Once()
	writer.On("WriteMessages", ctx, mock.Anything).Return(nil).Once()

	err := producer.PublishWithRetry(ctx, "reference-updates", "k", map[string]string{"a": "b"}, 3)

	require.NoError(t, err)
	writer.AssertNumberOfCalls(t, "WriteMessages", 2)
}

func TestProducer_PublishWithRetry_GivesUp(t *testing.T) {
	writer := &MockWriter{}
	producer := &Producer{writer: writer, log: logger.NewNop()}

	ctx := context.Background()
	writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("leader not available"))

	err := producer.PublishWithRetry(ctx, "reference-updates", "k", "v", 1)

	assert.EqualError(t, err, "failed after 1 retries: failed to write message to Kafka: leader not available")
}

func TestConsumer_Consume(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Value: []byte("1")}, {Value: []byte("2")}}}
	consumer := &Consumer{reader: reader, log: logger.NewNop()}

	var seen []string
	err := consumer.Consume(context.Background(), func(ctx context.Context, msg kafka.Message) error {
		seen = append(seen, string(msg.Value))
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"1", "2"}, seen)

	require.NoError(t, consumer.Close())
	assert.True(t, reader.closed)
}

func TestConsumer_StopsOnHandlerError(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Value: []byte("1")}, {Value: []byte("2")}}}
	consumer := &Consumer{reader: reader, log: logger.NewNop()}

	stop := errors.New("store down")
	calls := 0
	err := consumer.Consume(context.Background(), func(ctx context.Context, msg kafka.Message) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestReferenceEvent_Set(t *testing.T) {
	route := &domain.Route{OriginIata: "SEA", DestinationIata: "SFO", AirlineIata: "AS", AverageDuration: 125}
	event := ReferenceEvent{Type: EventRoute, Route: route}

	set, err := event.Set()

	require.NoError(t, err)
	assert.Equal(t, []domain.Route{*route}, set.Routes)
	assert.Equal(t, "route:AS-SEA-SFO", event.Key())
}

func TestReferenceEvent_SetRejectsMismatchedPayload(t *testing.T) {
	event := ReferenceEvent{Type: EventAirport, Airline: &domain.Airline{IataCode: "DL"}}

	_, err := event.Set()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecodeReferenceEvent(t *testing.T) {
	event, err := DecodeReferenceEvent([]byte(`{"type":" Aircraft ","aircraft":{"iata_code":"738","short_name":"B738"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventAircraft, event.Type)
	assert.Equal(t, "B738", event.Aircraft.ShortName)

	_, err = DecodeReferenceEvent([]byte("not json"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEventsFor_Order(t *testing.T) {
	set := domain.ReferenceSet{
		Routes:   []domain.Route{{OriginIata: "SEA", DestinationIata: "SFO", AirlineIata: "AS"}},
		Airports: []domain.Airport{{IataCode: "SEA"}, {IataCode: "SFO"}},
		Airlines: []domain.Airline{{IataCode: "AS"}},
	}

	events := EventsFor(set)

	var types []string
	for _, e := range events {
		types = append(types, e.Type)
		_, err := json.Marshal(e)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{EventAirport, EventAirport, EventAirline, EventRoute}, types)
	assert.Equal(t, "airport:SFO", events[1].Key())
}

func TestConsumer_ConsumeReferenceEvents(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Offset: 1, Value: []byte(`{"type":"airline","airline":{"iata_code":"DL","name":"Delta Air Lines"}}`)},
		{Offset: 2, Value: []byte("{broken")},
		{Offset: 3, Value: []byte(`{"type":"route"}`)},
		{Offset: 4, Value: []byte(`{"type":"aircraft","aircraft":{"iata_code":"738"}}`)},
	}}
	consumer := &Consumer{reader: reader, log: logger.NewNop()}

	var applied []string
	err := consumer.ConsumeReferenceEvents(context.Background(), func(ctx context.Context, event ReferenceEvent) error {
		if _, err := event.Set(); err != nil {
			return err
		}
		applied = append(applied, event.Key())
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"airline:DL", "aircraft:738"}, applied)
}

func TestConsumer_ConsumeReferenceEvents_StopsOnStoreError(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Value: []byte(`{"type":"airline","airline":{"iata_code":"DL"}}`)},
		{Value: []byte(`{"type":"airline","airline":{"iata_code":"AS"}}`)},
	}}
	consumer := &Consumer{reader: reader, log: logger.NewNop()}

	storeErr := errors.New("connection refused")
	calls := 0
	err := consumer.ConsumeReferenceEvents(context.Background(), func(ctx context.Context, event ReferenceEvent) error {
		calls++
		return storeErr
	})

	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 1, calls)
	assert.Len(t, reader.messages, 1)
}
