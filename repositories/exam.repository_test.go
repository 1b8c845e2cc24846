package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExamFilter(t *testing.T) {
	idExam := primitive.NewObjectID()
	tests := []struct {
		name        string
		withDeleted bool
		want        bson.D
	}{
		{
			name: "active only",
			want: bson.D{
				{Key: "_id", Value: idExam},
				{Key: "status", Value: true},
			},
		},
		{
			name:        "with deleted",
			withDeleted: true,
			want:        bson.D{{Key: "_id", Value: idExam}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, examFilter(idExam, tt.withDeleted))
		})
	}
}
