package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuideDefault(t *testing.T) {
	env := newTestEnv(t)

	output := env.run("guide")
	env.contains(output, "mra guide")
	env.contains(output, "format-preserving")
}

func TestGuideTopics(t *testing.T) {
	env := newTestEnv(t)

	env.contains(env.run("guide", "precommit"), "add-repo")
	env.contains(env.run("guide", "renovate"), "packageRules")
	env.contains(env.run("guide", "editors"), "baseline")
}

func TestGuideUnknownTopicListsAvailable(t *testing.T) {
	env := newTestEnv(t)

	output, err := env.runErr("guide", "no-such-topic")
	assert.Error(t, err)
	env.contains(output, "Available:")
	env.contains(output, "precommit")
}
