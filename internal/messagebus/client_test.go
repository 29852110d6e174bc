package messagebus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"example.com/backstage/services/routedelivery/config"
)

func TestRetryWithBackoffStopsOnOtherErrors(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("unauthorized")
	}, 3, time.Millisecond)

	require.EqualError(t, err, "unauthorized")
	require.Equal(t, 1, calls)
}

func TestRetryWithBackoffRetriesDisconnections(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("amqp: link detached")
		}
		return nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryWithBackoffGivesUp(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("amqp: link detached")
	}, 2, time.Millisecond)

	require.Error(t, err)
	require.Equal(t, 2, calls)
}

func TestRetryWithBackoffHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryWithBackoff(ctx, func() error {
		return errors.New("amqp: link detached")
	}, 3, time.Hour)

	require.ErrorIs(t, err, context.Canceled)
}

func TestNewClientWithoutConnectionString(t *testing.T) {
	client, err := NewClient(&config.MessageBusConfig{}, logrus.New())
	require.NoError(t, err)
	require.NoError(t, client.PublishMessage(context.Background(), map[string]string{"a": "b"}, "wms"))
	require.NoError(t, client.Close(context.Background()))
}
