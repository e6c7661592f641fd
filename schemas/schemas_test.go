package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewSchema_ValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(Review), &v))

	assert.Equal(t, "object", v["type"])
	assert.ElementsMatch(t, []any{
		"matchPercentage", "summary", "requiredSkills", "missingSkills",
		"strengths", "improvementAreas", "recommendedChanges", "overallFeedback",
	}, v["required"])
}
