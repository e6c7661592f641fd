package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_SectionRules(t *testing.T) {
	tests := []struct {
		line string
		want Style
	}{
		{"Acme Corporation", StyleHeading},
		{"Acme Corp 2020", StyleHeading},
		{"Jan 2020 – Present", StyleDate},
		{"Summer — Fall", StyleDate},
		{"- Led team in 2021", StyleDate},
		{"Languages & Tools:", StyleLabel},
		{"• Built APIs", StyleBullet},
		{"◦ Nested point", StyleBullet},
		{"- Led the team", StyleBullet},
		{"   • Indented bullet", StyleBullet},
		{"Short", StyleBody},
		{"built things", StyleBody},
		{"Role: Backend", StyleBody},
		{"•no space", StyleBody},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(SectionRules, tt.line))
		})
	}
}

func TestClassify_HeadingLengthBounds(t *testing.T) {
	long := "A"
	for len(long) < 100 {
		long += "b"
	}
	assert.NotEqual(t, StyleHeading, Classify(SectionRules, long))
	assert.Equal(t, StyleHeading, Classify(SectionRules, long[:99]))
	assert.Equal(t, StyleHeading, Classify(SectionRules, "Abcdef"))
}

func TestClassify_SkillsRules(t *testing.T) {
	assert.Equal(t, StyleLabel, Classify(SkillsRules, "Backend:"))
	assert.Equal(t, StyleBody, Classify(SkillsRules, "Go, Python, SQL"))
	assert.Equal(t, StyleBody, Classify(SkillsRules, "Acme Corporation"))
}

func TestClassify_NoRules(t *testing.T) {
	assert.Equal(t, StyleBody, Classify(nil, "Anything: at all"))
}

func TestStyle_String(t *testing.T) {
	assert.Equal(t, "bullet", StyleBullet.String())
	assert.Equal(t, "body", Style(42).String())
}
