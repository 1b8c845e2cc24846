package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CPU-commits/Intranet_BXams/settings"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const NO_SINGLE_DOCUMENT = "mongo: no documents in result"

var Ctx = context.Background()

var settingsData = settings.GetSettings()

type MongoConnection struct {
	host   string
	dbName string
	once   sync.Once
	client *mongo.Client
	err    error
}

func mongoURI(host string) string {
	if settingsData.MONGO_ROOT_USERNAME == "" {
		return fmt.Sprintf("%s://%s", settingsData.MONGO_CONNECTION, host)
	}
	return fmt.Sprintf(
		"%s://%s:%s@%s",
		settingsData.MONGO_CONNECTION,
		settingsData.MONGO_ROOT_USERNAME,
		settingsData.MONGO_ROOT_PASSWORD,
		host,
	)
}

// NewConnection returns a lazy connection. The driver is dialed on the first
// collection access so that importing models never requires a running server.
func NewConnection(host, dbName string) *MongoConnection {
	return &MongoConnection{
		host:   host,
		dbName: dbName,
	}
}

func (m *MongoConnection) connect() (*mongo.Client, error) {
	m.once.Do(func() {
		opts := options.Client().
			ApplyURI(mongoURI(m.host)).
			SetConnectTimeout(10 * time.Second).
			SetServerSelectionTimeout(10 * time.Second)
		m.client, m.err = mongo.Connect(Ctx, opts)
		if m.err != nil {
			m.err = errors.Wrap(m.err, "mongo connect")
		}
	})
	return m.client, m.err
}

func (m *MongoConnection) Database() *mongo.Database {
	client, err := m.connect()
	if err != nil {
		panic(err)
	}
	return client.Database(m.dbName)
}

func (m *MongoConnection) GetCollection(collection string) *mongo.Collection {
	return m.Database().Collection(collection)
}

func (m *MongoConnection) GetCollections() ([]string, error) {
	client, err := m.connect()
	if err != nil {
		return nil, err
	}
	return client.Database(m.dbName).ListCollectionNames(Ctx, bson.D{})
}

func (m *MongoConnection) CreateCollection(name string, opts *options.CreateCollectionOptions) error {
	client, err := m.connect()
	if err != nil {
		return err
	}
	return client.Database(m.dbName).CreateCollection(Ctx, name, opts)
}

func (m *MongoConnection) Ping() error {
	client, err := m.connect()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(Ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}

func (m *MongoConnection) Disconnect() error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(Ctx)
}
