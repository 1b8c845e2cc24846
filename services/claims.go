package services

import (
	"fmt"

	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CLAIMS_CONTEXT_KEY = "user"

type Claims struct {
	jwt.StandardClaims
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	UserType  string `json:"user_type"`
	TokenType string `json:"token_type"`
}

func (c *Claims) IsInstructor() bool {
	return c.UserType == models.INSTRUCTOR
}

func (c *Claims) IsStudent() bool {
	return c.UserType == models.STUDENT
}

func (c *Claims) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.ID)
}

func NewClaimsFromContext(ctx *gin.Context) (*Claims, error) {
	value, exists := ctx.Get(CLAIMS_CONTEXT_KEY)
	if !exists {
		return nil, fmt.Errorf("no claims in context")
	}
	claims, ok := value.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid claims in context")
	}
	return claims, nil
}
