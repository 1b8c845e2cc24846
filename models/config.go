package models

import (
	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/settings"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var settingsData = settings.GetSettings()

// MongoDB
var DbConnect = db.NewConnection(
	settingsData.MONGO_HOST,
	settingsData.MONGO_DB,
)

type collectionSchema struct {
	name       string
	jsonSchema bson.M
	indexes    []mongo.IndexModel
}

var schemas []collectionSchema

func registerSchema(name string, jsonSchema bson.M, indexes ...mongo.IndexModel) {
	schemas = append(schemas, collectionSchema{
		name:       name,
		jsonSchema: jsonSchema,
		indexes:    indexes,
	})
}

// InitCollections creates every missing collection with its validator and
// makes sure the indexes exist.
func InitCollections() error {
	collections, err := DbConnect.GetCollections()
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(collections))
	for _, collection := range collections {
		existing[collection] = true
	}
	for _, schema := range schemas {
		if !existing[schema.name] {
			opts := &options.CreateCollectionOptions{
				Validator: bson.M{
					"$jsonSchema": schema.jsonSchema,
				},
			}
			if err := DbConnect.CreateCollection(schema.name, opts); err != nil {
				return err
			}
		}
		if len(schema.indexes) == 0 {
			continue
		}
		_, err := DbConnect.GetCollection(schema.name).
			Indexes().
			CreateMany(db.Ctx, schema.indexes)
		if err != nil {
			return err
		}
	}
	return nil
}
