package repositories

import (
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CourseRepository struct{}

func (c *CourseRepository) GetCourse(idCourse primitive.ObjectID) (*models.Course, *res.ErrorRes) {
	var course *models.Course
	err := findOne(courseModel, bson.D{
		{Key: "_id", Value: idCourse},
		{Key: "status", Value: true},
	}, &course, "Course not found")
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (c *CourseRepository) GetCoursesWLookup(match bson.M) ([]models.CourseWLookup, *res.ErrorRes) {
	courses := []models.CourseWLookup{}
	match["status"] = true

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		getLookupUser("instructor"),
		setFirst("instructor"),
		bson.D{{Key: "$sort", Value: bson.M{"name": 1}}},
	}
	if err := aggregate(courseModel, pipeline, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *CourseRepository) GetCourseWLookup(idCourse primitive.ObjectID) (*models.CourseWLookup, *res.ErrorRes) {
	courses, err := c.GetCoursesWLookup(bson.M{"_id": idCourse})
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, notFound("Course not found")
	}
	return &courses[0], nil
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{}
}
