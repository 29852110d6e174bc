package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"example.com/backstage/services/routedelivery/config"
)

// Index names, prefixed with the configured index prefix
const (
	DeliveriesIndex   = "deliveries"
	DailyReportsIndex = "daily-reports"
)

// Client is an interface for Elasticsearch operations
type Client interface {
	IndexDocument(ctx context.Context, index, id string, document interface{}) error
}

// esClient implements the Client interface
type esClient struct {
	client *elasticsearch.Client
	prefix string
}

// NewClient creates a new Elasticsearch client.
// When search is disabled documents are dropped.
func NewClient(cfg *config.ElasticsearchConfig) (Client, error) {
	if !cfg.Enabled {
		return noopClient{}, nil
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.URLs,
	}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	return &esClient{
		client: client,
		prefix: cfg.IndexPrefix,
	}, nil
}

// IndexName formats an index name with a prefix
func IndexName(prefix, index string) string {
	if prefix == "" {
		return index
	}
	return prefix + "-" + index
}

// IndexDocument indexes a document
func (e *esClient) IndexDocument(ctx context.Context, index, id string, document interface{}) error {
	body, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      IndexName(e.prefix, index),
		DocumentID: id,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

type noopClient struct{}

func (noopClient) IndexDocument(context.Context, string, string, interface{}) error { return nil }
