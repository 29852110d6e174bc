package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/backstage/services/routedelivery/config"
)

func TestIndexName(t *testing.T) {
	require.Equal(t, "routedelivery-deliveries", IndexName("routedelivery", DeliveriesIndex))
	require.Equal(t, "daily-reports", IndexName("", DailyReportsIndex))
}

func TestNewClientDisabled(t *testing.T) {
	client, err := NewClient(&config.ElasticsearchConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, client.IndexDocument(context.Background(), DeliveriesIndex, "1", map[string]int{"a": 1}))
}
