package helpers

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// NewESClient creates an Elasticsearch client with sane defaults and optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// SearchHit is a single document returned by a search.
type SearchHit struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Source map[string]any `json:"source"`
}

// ESIndexer wraps the client with the three calls the services need.
type ESIndexer struct {
	es      *elasticsearch.Client
	timeout time.Duration
}

func NewESIndexer(es *elasticsearch.Client) *ESIndexer {
	return &ESIndexer{es: es, timeout: 3 * time.Second}
}

// EnsureIndex creates index with the given mappings when it does not exist yet.
// An existing index is left untouched.
func (x *ESIndexer) EnsureIndex(ctx context.Context, index string, mappings map[string]any) error {
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es exists %s: %w", index, err)
	}
	_ = res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("es exists %s: %s", index, res.Status())
	}

	b, err := json.Marshal(map[string]any{"mappings": mappings})
	if err != nil {
		return err
	}
	res, err = esapi.IndicesCreateRequest{Index: index, Body: bytes.NewReader(b)}.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es create %s: %w", index, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create %s: %s", index, res.Status())
	}
	return nil
}

func (x *ESIndexer) Index(ctx context.Context, index, id string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()
	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s/%s: %s", index, id, res.Status())
	}
	return nil
}

func (x *ESIndexer) Delete(ctx context.Context, index, id string) error {
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()
	req := esapi.DeleteRequest{Index: index, DocumentID: id}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s/%s: %s", index, id, res.Status())
	}
	return nil
}

func (x *ESIndexer) Search(ctx context.Context, index string, query map[string]any, size int) ([]SearchHit, error) {
	body := map[string]any{"query": query, "size": size}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search %s: %s", index, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Score  float64        `json:"_score"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]SearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, SearchHit{ID: h.ID, Score: h.Score, Source: h.Source})
	}
	return out, nil
}
