package models

import (
	"github.com/CPU-commits/Intranet_BXams/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collection interface {
	Use() *mongo.Collection
	GetByID(id primitive.ObjectID) *mongo.SingleResult
	GetOne(filter bson.D) *mongo.SingleResult
	GetAll(filter bson.D, options *options.FindOptions) (*mongo.Cursor, error)
	Aggreagate(pipeline mongo.Pipeline) (*mongo.Cursor, error)
	NewDocument(data interface{}) (*mongo.InsertOneResult, error)
}

// model implements Collection for a named collection
type model struct {
	CollectionName string
}

func (m *model) Use() *mongo.Collection {
	return DbConnect.GetCollection(m.CollectionName)
}

func (m *model) GetByID(id primitive.ObjectID) *mongo.SingleResult {
	return m.Use().FindOne(db.Ctx, bson.D{
		{
			Key:   "_id",
			Value: id,
		},
	})
}

func (m *model) GetOne(filter bson.D) *mongo.SingleResult {
	return m.Use().FindOne(db.Ctx, filter)
}

func (m *model) GetAll(filter bson.D, options *options.FindOptions) (*mongo.Cursor, error) {
	return m.Use().Find(db.Ctx, filter, options)
}

func (m *model) Aggreagate(pipeline mongo.Pipeline) (*mongo.Cursor, error) {
	return m.Use().Aggregate(db.Ctx, pipeline)
}

func (m *model) NewDocument(data interface{}) (*mongo.InsertOneResult, error) {
	result, err := m.Use().InsertOne(db.Ctx, data)
	if err != nil {
		return nil, err
	}
	return result, nil
}
