package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySkills_MarshalKeepsOrder(t *testing.T) {
	c := CategorySkills{
		{Category: "frontend", Skills: []string{"react"}},
		{Category: "backend", Skills: nil},
		{Category: "databases", Skills: []string{"mongodb", "redis"}},
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"frontend":["react"],"backend":[],"databases":["mongodb","redis"]}`, string(data))
}

func TestCategorySkills_UnmarshalKeepsOrder(t *testing.T) {
	var c CategorySkills
	err := json.Unmarshal([]byte(`{"zeta":["z"],"alpha":["a","b"]}`), &c)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha"}, c.Categories())
	skills, ok := c.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, skills)
}

func TestCategorySkills_UnmarshalRejectsArray(t *testing.T) {
	var c CategorySkills
	err := json.Unmarshal([]byte(`["react"]`), &c)
	assert.Error(t, err)
}

func TestCategorySkills_SetReplacesInPlace(t *testing.T) {
	var c CategorySkills
	c.Set("a", []string{"1"})
	c.Set("b", []string{"2"})
	c.Set("a", []string{"3", "4"})

	assert.Equal(t, []string{"a", "b"}, c.Categories())
	assert.Equal(t, 3, c.Total())
}

func TestCategorySkills_CloneIsIndependent(t *testing.T) {
	c := CategorySkills{{Category: "a", Skills: []string{"x"}}}
	clone := c.Clone()
	clone[0].Skills[0] = "y"

	assert.Equal(t, "x", c[0].Skills[0])
}

func TestRecommendations_MarshalJSON(t *testing.T) {
	r := Recommendations{
		{Category: "devops", Recommended: []string{"docker", "git"}, Detected: nil, Coverage: "0/2"},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"devops":{"recommended":["docker","git"],"detected":[],"coverage":"0/2"}}`, string(data))
}

func TestRecommendations_UnmarshalJSONKeepsOrder(t *testing.T) {
	var r Recommendations
	err := json.Unmarshal([]byte(`{"frontend":{"recommended":["react"],"detected":["react"],"coverage":"1/1"},"devops":{"recommended":["docker"],"detected":[],"coverage":"0/1"}}`), &r)
	require.NoError(t, err)

	require.Len(t, r, 2)
	assert.Equal(t, "frontend", r[0].Category)
	assert.Equal(t, "devops", r[1].Category)
	devops, ok := r.Get("devops")
	assert.True(t, ok)
	assert.Equal(t, "0/1", devops.Coverage)
}

func TestRecommendations_UnmarshalJSONRejectsArray(t *testing.T) {
	var r Recommendations
	assert.Error(t, json.Unmarshal([]byte(`[]`), &r))
}

func TestResumeSections_SetKeepsFirstPosition(t *testing.T) {
	var s ResumeSections
	s.Set("SKILLS", "Go")
	s.Set("EDUCATION", "MIT")
	s.Set("SKILLS", "Rust")

	assert.Equal(t, []string{"SKILLS", "EDUCATION"}, s.Names())
	content, ok := s.Get("SKILLS")
	assert.True(t, ok)
	assert.Equal(t, "Rust", content)
}

func TestContactDetails_ContactLine(t *testing.T) {
	c := ContactDetails{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "9876543210",
		LinkedIn: "linkedin.com/in/jane",
	}

	assert.Equal(t, []string{"9876543210", "jane@example.com", "linkedin.com/in/jane"}, c.ContactLine())
}
