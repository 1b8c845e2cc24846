package db

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/pkg/errors"
)

// BulkIndexer const
const NUM_WORKERS = 5
const FLUSH_BYTES = 5000000
const FLUSH_INTERVAL = time.Second * 30

var esOnce sync.Once
var esClient *elasticsearch.Client
var esErr error

func esAddress() string {
	protocol := "http"
	if settingsData.IsProd() {
		protocol += "s"
	}
	return fmt.Sprintf("%s://%s:%d", protocol, settingsData.ELS_HOST, settingsData.ELS_PORT)
}

// NewConnectionEs returns the process wide client. Requests retry with an
// exponential backoff on gateway and throttling statuses.
func NewConnectionEs() (*elasticsearch.Client, error) {
	esOnce.Do(func() {
		retryBackoff := backoff.NewExponentialBackOff()
		esClient, esErr = elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{esAddress()},
			Username:  settingsData.ELS_USERNAME,
			Password:  settingsData.ELS_PASSWORD,
			Transport: &http.Transport{
				MaxIdleConns:          10,
				ResponseHeaderTimeout: time.Second * 2,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
			RetryOnStatus: []int{502, 503, 504, 429},
			RetryBackoff: func(attempt int) time.Duration {
				if attempt == 1 {
					retryBackoff.Reset()
				}
				return retryBackoff.NextBackOff()
			},
			MaxRetries: 5,
		})
		if esErr != nil {
			esErr = errors.Wrap(esErr, "elasticsearch client")
		}
	})
	return esClient, esErr
}

// EnsureIndex creates index with the given settings body when it is missing
func EnsureIndex(index string, body []byte) error {
	es, err := NewConnectionEs()
	if err != nil {
		return err
	}
	exists, err := es.Indices.Exists([]string{index})
	if err != nil {
		return errors.Wrap(err, "index exists")
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}
	created, err := es.Indices.Create(
		index,
		es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return errors.Wrap(err, "create index")
	}
	defer created.Body.Close()
	if created.IsError() {
		return fmt.Errorf("create index %s: %s", index, created.String())
	}
	return nil
}
