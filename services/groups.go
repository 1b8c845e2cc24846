package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/CPU-commits/Intranet_BXams/db"
	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const JOIN_CODE_LENGTH = 8
const JOIN_CODE_RETRIES = 5

// No 0/O or 1/I
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var groupsService *GroupsService

type GroupsService struct{}

func NewJoinCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := 0; i < JOIN_CODE_LENGTH; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(joinCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// withJoinCode retries write with fresh codes while the unique index rejects
// them
func withJoinCode(write func(code string) error) (string, *res.ErrorRes) {
	for i := 0; i < JOIN_CODE_RETRIES; i++ {
		code, err := NewJoinCode()
		if err != nil {
			return "", &res.ErrorRes{
				Err:        err,
				StatusCode: http.StatusInternalServerError,
			}
		}
		err = write(code)
		if err == nil {
			return code, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return "", res.FromDBError(err, "")
		}
	}
	return "", &res.ErrorRes{
		Err:        fmt.Errorf("could not generate a unique join code"),
		StatusCode: http.StatusServiceUnavailable,
	}
}

// getOwnedGroup loads a group and checks the caller owns its course
func (g *GroupsService) getOwnedGroup(idGroup string, claims *Claims) (*models.Group, *res.ErrorRes) {
	idObjGroup, errRes := parseID(idGroup)
	if errRes != nil {
		return nil, errRes
	}
	group, errRes := groupRepository.GetGroup(idObjGroup)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(group.Course, claims, true); errRes != nil {
		return nil, errRes
	}
	return group, nil
}

func (g *GroupsService) NewGroup(form *forms.GroupForm, idCourse string, claims *Claims) (*models.Group, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(idObjCourse, claims, true); errRes != nil {
		return nil, errRes
	}
	var group *models.Group
	_, errRes = withJoinCode(func(code string) error {
		group = models.NewModelGroup(idObjCourse, strings.TrimSpace(form.Name), code)
		inserted, err := groupModel.NewDocument(group)
		if err != nil {
			return err
		}
		group.ID = inserted.InsertedID.(primitive.ObjectID)
		return nil
	})
	if errRes != nil {
		return nil, errRes
	}
	return group, nil
}

// GetGroups returns every group with its size for the owner, and only the
// student's own groups otherwise
func (g *GroupsService) GetGroups(idCourse string, claims *Claims) ([]models.GroupWCount, *res.ErrorRes) {
	idObjCourse, errRes := parseID(idCourse)
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := getAuthorizedCourse(idObjCourse, claims, false); errRes != nil {
		return nil, errRes
	}
	groups, errRes := groupRepository.GetGroupsWCount(idObjCourse)
	if errRes != nil {
		return nil, errRes
	}
	if claims.IsInstructor() {
		return groups, nil
	}
	idUser, _ := claims.ObjectID()
	own, errRes := groupRepository.GetGroups(bson.D{
		{Key: "course", Value: idObjCourse},
		{Key: "students", Value: idUser},
	})
	if errRes != nil {
		return nil, errRes
	}
	studentGroups := []models.GroupWCount{}
	for _, group := range groups {
		for _, o := range own {
			if o.ID == group.ID {
				group.JoinCode = ""
				studentGroups = append(studentGroups, group)
				break
			}
		}
	}
	return studentGroups, nil
}

func (g *GroupsService) RenameGroup(form *forms.GroupForm, idGroup string, claims *Claims) *res.ErrorRes {
	group, errRes := g.getOwnedGroup(idGroup, claims)
	if errRes != nil {
		return errRes
	}
	_, err := groupModel.Use().UpdateByID(db.Ctx, group.ID, bson.D{{
		Key: "$set",
		Value: bson.M{
			"name": strings.TrimSpace(form.Name),
		},
	}})
	if err != nil {
		return res.FromDBError(err, "")
	}
	return nil
}

func (g *GroupsService) RegenerateCode(idGroup string, claims *Claims) (string, *res.ErrorRes) {
	group, errRes := g.getOwnedGroup(idGroup, claims)
	if errRes != nil {
		return "", errRes
	}
	return withJoinCode(func(code string) error {
		_, err := groupModel.Use().UpdateByID(db.Ctx, group.ID, bson.D{{
			Key: "$set",
			Value: bson.M{
				"join_code": code,
			},
		}})
		return err
	})
}

func (g *GroupsService) DeleteGroup(idGroup string, claims *Claims) *res.ErrorRes {
	group, errRes := g.getOwnedGroup(idGroup, claims)
	if errRes != nil {
		return errRes
	}
	_, err := groupModel.Use().UpdateByID(db.Ctx, group.ID, bson.D{{
		Key: "$set",
		Value: bson.M{
			"status": false,
		},
	}})
	if err != nil {
		return res.FromDBError(err, "")
	}
	return nil
}

// JoinGroup adds the student to the group of the code. Joining twice is a
// no-op.
func (g *GroupsService) JoinGroup(form *forms.JoinGroupForm, claims *Claims) (*models.Group, *res.ErrorRes) {
	if !claims.IsStudent() {
		return nil, &res.ErrorRes{
			Err:        fmt.Errorf("only students can join groups"),
			StatusCode: http.StatusForbidden,
		}
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return nil, errRes
	}
	group, errRes := groupRepository.GetGroupByCode(strings.ToUpper(strings.TrimSpace(form.Code)))
	if errRes != nil {
		return nil, errRes
	}
	if _, errRes := courseRepository.GetCourse(group.Course); errRes != nil {
		return nil, errRes
	}
	if !group.HasStudent(idUser) {
		_, err := groupModel.Use().UpdateByID(db.Ctx, group.ID, bson.D{{
			Key: "$addToSet",
			Value: bson.M{
				"students": idUser,
			},
		}})
		if err != nil {
			return nil, res.FromDBError(err, "")
		}
	}
	group.JoinCode = ""
	group.Students = nil
	return group, nil
}

func (g *GroupsService) removeStudent(group *models.Group, idStudent primitive.ObjectID) *res.ErrorRes {
	if !group.HasStudent(idStudent) {
		return &res.ErrorRes{
			Err:        fmt.Errorf("the student is not in this group"),
			StatusCode: http.StatusNotFound,
		}
	}
	_, err := groupModel.Use().UpdateByID(db.Ctx, group.ID, bson.D{{
		Key: "$pull",
		Value: bson.M{
			"students": idStudent,
		},
	}})
	if err != nil {
		return res.FromDBError(err, "")
	}
	return nil
}

func (g *GroupsService) RemoveStudent(idGroup, idStudent string, claims *Claims) *res.ErrorRes {
	idObjStudent, errRes := parseID(idStudent)
	if errRes != nil {
		return errRes
	}
	group, errRes := g.getOwnedGroup(idGroup, claims)
	if errRes != nil {
		return errRes
	}
	return g.removeStudent(group, idObjStudent)
}

func (g *GroupsService) LeaveGroup(idGroup string, claims *Claims) *res.ErrorRes {
	idObjGroup, errRes := parseID(idGroup)
	if errRes != nil {
		return errRes
	}
	idUser, errRes := claimsID(claims)
	if errRes != nil {
		return errRes
	}
	group, errRes := groupRepository.GetGroup(idObjGroup)
	if errRes != nil {
		return errRes
	}
	return g.removeStudent(group, idUser)
}

func (g *GroupsService) GetStudents(idGroup string, claims *Claims) ([]models.SimpleUser, *res.ErrorRes) {
	group, errRes := g.getOwnedGroup(idGroup, claims)
	if errRes != nil {
		return nil, errRes
	}
	return groupRepository.GetStudents(group.ID)
}

func NewGroupsService() *GroupsService {
	if groupsService == nil {
		groupsService = &GroupsService{}
	}
	return groupsService
}
