package stack

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/CPU-commits/Intranet_BXams/settings"
	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

const REQUEST_TIMEOUT = time.Second * 5

var settingsData = settings.GetSettings()

var natsInstance *NatsClient
var natsLock = &sync.Mutex{}

// NatsNestJSRes is the envelope other services answer requests with
type NatsNestJSRes struct {
	Err        string      `json:"err,omitempty"`
	Response   interface{} `json:"response"`
	IsDisposed bool        `json:"isDisposed"`
	ID         string      `json:"id"`
}

type NatsClient struct {
	once sync.Once
	conn *nats.Conn
	err  error
}

func (n *NatsClient) connect() (*nats.Conn, error) {
	n.once.Do(func() {
		url := fmt.Sprintf("nats://%s:4222", settingsData.NATS_HOST)
		operation := func() error {
			conn, err := nats.Connect(
				url,
				nats.Name(settingsData.APP_NAME),
				nats.MaxReconnects(-1),
			)
			if err != nil {
				return err
			}
			n.conn = conn
			return nil
		}
		retry := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
		if err := backoff.Retry(operation, retry); err != nil {
			n.err = errors.Wrap(err, "nats connect")
		}
	})
	return n.conn, n.err
}

func (n *NatsClient) Publish(subject string, data []byte) error {
	conn, err := n.connect()
	if err != nil {
		return err
	}
	return conn.Publish(subject, data)
}

func (n *NatsClient) PublishEncode(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return n.Publish(subject, data)
}

func (n *NatsClient) Request(subject string, data []byte) (*nats.Msg, error) {
	conn, err := n.connect()
	if err != nil {
		return nil, err
	}
	return conn.Request(subject, data, REQUEST_TIMEOUT)
}

func (n *NatsClient) Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	conn, err := n.connect()
	if err != nil {
		return nil, err
	}
	return conn.Subscribe(subject, handler)
}

func (n *NatsClient) QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error) {
	conn, err := n.connect()
	if err != nil {
		return nil, err
	}
	return conn.QueueSubscribe(subject, queue, handler)
}

// DecodeDataNest unwraps the {id, data} envelope used by request/reply peers
func (n *NatsClient) DecodeDataNest(data []byte) (map[string]interface{}, error) {
	var request map[string]interface{}
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, err
	}
	payload, ok := request["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("nats message without data")
	}
	return payload, nil
}

func (n *NatsClient) ExtractPayload(data []byte, v interface{}) error {
	var response NatsNestJSRes
	if err := json.Unmarshal(data, &response); err != nil {
		return err
	}
	if response.Err != "" {
		return errors.New(response.Err)
	}
	payload, err := json.Marshal(response.Response)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, v)
}

func (n *NatsClient) Close() {
	if n.conn != nil {
		n.conn.Drain()
	}
}

func NewNats() *NatsClient {
	natsLock.Lock()
	defer natsLock.Unlock()
	if natsInstance == nil {
		natsInstance = &NatsClient{}
	}
	return natsInstance
}
