package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	netmail "net/mail"
	"time"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/mail"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var authService *AuthService

var errInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	sessions SessionStore
	getUser  func(idUser primitive.ObjectID) (*models.User, *res.ErrorRes)
}

func (a *AuthService) issueTokens(user *models.User) (*TokenPair, *res.ErrorRes) {
	tokens, err := NewTokenPair(user, time.Now())
	if err != nil {
		return nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusInternalServerError,
		}
	}
	err = a.sessions.Save(
		context.Background(),
		tokens.refreshClaims.Id,
		user.ID.Hex(),
		settingsData.REFRESH_TOKEN_TTL,
	)
	if err != nil {
		return nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	return tokens, nil
}

func (a *AuthService) Register(form *forms.RegisterForm) (*models.User, *TokenPair, *res.ErrorRes) {
	hash, err := HashPassword(form.Password)
	if err != nil {
		return nil, nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusInternalServerError,
		}
	}
	user := models.NewModelUser(form, hash)
	// Unique email and username
	count, err := userModel.Use().CountDocuments(db.Ctx, bson.D{{
		Key: "$or",
		Value: bson.A{
			bson.M{"email": user.Email},
			bson.M{"username": user.Username},
		},
	}})
	if err != nil {
		return nil, nil, res.FromDBError(err, "")
	}
	if count > 0 {
		return nil, nil, &res.ErrorRes{
			Err:        fmt.Errorf("email or username already registered"),
			StatusCode: http.StatusConflict,
		}
	}
	inserted, err := userModel.NewDocument(user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, nil, &res.ErrorRes{
				Err:        fmt.Errorf("email or username already registered"),
				StatusCode: http.StatusConflict,
			}
		}
		return nil, nil, res.FromDBError(err, "")
	}
	user.ID = inserted.InsertedID.(primitive.ObjectID)

	tokens, errRes := a.issueTokens(user)
	if errRes != nil {
		return nil, nil, errRes
	}
	mailer.Send(&mail.Message{
		To: []netmail.Address{{
			Name:    user.FullName(),
			Address: user.Email,
		}},
		Subject: "Welcome",
		Text: fmt.Sprintf(
			"Hi %s, your %s account is ready. Sign in with %s.",
			user.FirstName,
			settingsData.APP_NAME,
			user.Username,
		),
	})
	return user, tokens, nil
}

func (a *AuthService) Login(form *forms.LoginForm) (*models.User, *TokenPair, *res.ErrorRes) {
	user, errRes := userRepository.GetUserByLogin(form.Username)
	if errRes != nil {
		if errRes.StatusCode == http.StatusNotFound {
			return nil, nil, &res.ErrorRes{
				Err:        errInvalidCredentials,
				StatusCode: http.StatusUnauthorized,
			}
		}
		return nil, nil, errRes
	}
	if !CheckPassword(user.Password, form.Password) {
		return nil, nil, &res.ErrorRes{
			Err:        errInvalidCredentials,
			StatusCode: http.StatusUnauthorized,
		}
	}
	if !user.Status {
		return nil, nil, &res.ErrorRes{
			Err:        fmt.Errorf("this account is deactivated"),
			StatusCode: http.StatusForbidden,
		}
	}
	now := primitive.NewDateTimeFromTime(time.Now())
	_, err := userModel.Use().UpdateByID(db.Ctx, user.ID, bson.D{{
		Key: "$set",
		Value: bson.M{
			"last_login": now,
		},
	}})
	if err != nil {
		logger.ReportError(err, zap.String("user", user.ID.Hex()))
	}
	user.LastLogin = now

	tokens, errRes := a.issueTokens(user)
	if errRes != nil {
		return nil, nil, errRes
	}
	return user, tokens, nil
}

// Refresh rotates a refresh token. The old jti stops being valid.
func (a *AuthService) Refresh(refreshToken string) (*TokenPair, *res.ErrorRes) {
	claims, err := ParseToken(refreshToken, REFRESH_TOKEN)
	if err != nil {
		return nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusUnauthorized,
		}
	}
	// Consuming the jti is the check, so a replayed token loses the race
	live, err := a.sessions.Delete(context.Background(), claims.Id)
	if err != nil {
		return nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	if !live {
		return nil, &res.ErrorRes{
			Err:        fmt.Errorf("session revoked"),
			StatusCode: http.StatusUnauthorized,
		}
	}
	idObjUser, err := claims.ObjectID()
	if err != nil {
		return nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusUnauthorized,
		}
	}
	user, errRes := a.getUser(idObjUser)
	if errRes != nil {
		return nil, errRes
	}
	if !user.Status {
		return nil, &res.ErrorRes{
			Err:        fmt.Errorf("this account is deactivated"),
			StatusCode: http.StatusForbidden,
		}
	}
	return a.issueTokens(user)
}

// Logout revokes the refresh token. Unparseable tokens are ignored.
func (a *AuthService) Logout(refreshToken string) *res.ErrorRes {
	if refreshToken == "" {
		return nil
	}
	claims, err := ParseToken(refreshToken, REFRESH_TOKEN)
	if err != nil {
		return nil
	}
	if _, err := a.sessions.Delete(context.Background(), claims.Id); err != nil {
		return &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	return nil
}

func (a *AuthService) Me(claims *Claims) (*models.User, *res.ErrorRes) {
	idObjUser, err := claims.ObjectID()
	if err != nil {
		return nil, &res.ErrorRes{
			Err:        err,
			StatusCode: http.StatusBadRequest,
		}
	}
	return userRepository.GetUser(idObjUser)
}

func NewAuthService() *AuthService {
	if authService == nil {
		authService = &AuthService{
			sessions: NewRedisSessionStore(),
			getUser:  userRepository.GetUser,
		}
	}
	return authService
}
