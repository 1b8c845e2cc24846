package repositories

import (
	"strings"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct{}

func (u *UserRepository) GetUser(idUser primitive.ObjectID) (*models.User, *res.ErrorRes) {
	var user *models.User
	if err := findOne(userModel, bson.D{{Key: "_id", Value: idUser}}, &user, "User not found"); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByLogin matches either the username or the email
func (u *UserRepository) GetUserByLogin(login string) (*models.User, *res.ErrorRes) {
	var user *models.User
	login = strings.ToLower(strings.TrimSpace(login))
	filter := bson.D{{
		Key: "$or",
		Value: bson.A{
			bson.M{"username": login},
			bson.M{"email": login},
		},
	}}
	if err := findOne(userModel, filter, &user, "User not found"); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserRepository) GetSimpleUsers(ids []primitive.ObjectID) ([]models.SimpleUser, *res.ErrorRes) {
	users := []models.SimpleUser{}
	cursor, err := userModel.GetAll(bson.D{
		{Key: "_id", Value: bson.M{"$in": ids}},
		{Key: "status", Value: true},
	}, nil)
	if err != nil {
		return nil, res.FromDBError(err, "")
	}
	if err := cursor.All(db.Ctx, &users); err != nil {
		return nil, res.FromDBError(err, "")
	}
	return users, nil
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}
