package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSearchQuery(t *testing.T) {
	query := BuildSearchQuery("  algebra ", []string{"a", "b"})

	assert.Equal(t, SEARCH_SIZE, query["size"])
	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].(map[string]interface{})["simple_query_string"].(map[string]interface{})
	assert.Equal(t, "algebra*", must["query"])
	filter := boolQuery["filter"].(map[string]interface{})["terms"].(map[string]interface{})
	assert.Equal(t, []string{"a", "b"}, filter["id_course"])
}
