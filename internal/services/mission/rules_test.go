package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRules(t *testing.T) {
	rules := ParseRules(`{"event":"idea_created","min_count":3}`)
	assert.Equal(t, "idea_created", rules.Event)
	assert.Equal(t, 3, rules.MinCount)
}

func TestParseRulesMalformedJSON(t *testing.T) {
	rules := ParseRules(`{invalid`)
	assert.Equal(t, "", rules.Event)
	assert.Equal(t, 1, rules.MinCount)
}

func TestParseRulesMissingMinCount(t *testing.T) {
	rules := ParseRules(`{"event":"kudos_sent"}`)
	assert.Equal(t, "kudos_sent", rules.Event)
	assert.Equal(t, 1, rules.MinCount)
}

func TestParseRulesNonPositiveMinCount(t *testing.T) {
	rules := ParseRules(`{"event":"idea_voted","min_count":-5}`)
	assert.Equal(t, 1, rules.MinCount)

	rules = ParseRules(`{"event":"idea_voted","min_count":0}`)
	assert.Equal(t, 1, rules.MinCount)
}

func TestParseRulesEmptyString(t *testing.T) {
	rules := ParseRules("")
	assert.Equal(t, 1, rules.MinCount)
}
