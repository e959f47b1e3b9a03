// audit/elasticsearch.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/arbiterhq/arbiter/config"
)

type ElasticsearchSink struct {
	esClient *elasticsearch.Client
	index    string
}

// NewElasticsearchSink creates a sink with a given Elasticsearch URL and
// target index.
func NewElasticsearchSink(esURL, index string) (*ElasticsearchSink, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchSink{esClient: esClient, index: index}, nil
}

// NewElasticsearchSinkFromConfig uses the viper-managed elasticsearch
// settings.
func NewElasticsearchSinkFromConfig() (*ElasticsearchSink, error) {
	return NewElasticsearchSink(config.GetString("elasticsearch.url"), config.GetString("audit.index"))
}

// Record indexes one audit event.
func (s *ElasticsearchSink) Record(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: fmt.Sprintf("%d-%s", event.Timestamp.UnixNano(), event.PolicyID),
		Body:       strings.NewReader(string(data)),
	}

	res, err := req.Do(ctx, s.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}
