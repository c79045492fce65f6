package renovate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkw-au/mra/internal/json5"
)

func parse(t *testing.T, text string) *Config {
	t.Helper()
	node, err := json5.Parse(text)
	require.NoError(t, err)
	return Load(node.(*json5.Object))
}

func render(t *testing.T, c *Config) string {
	t.Helper()
	return json5.Print(c.Root())
}

const doc = `{
  extends: [
    "config:base",
  ],
  customManagers: [
    {
      /** pin python version */
      customType: "regex",
      fileMatch: [
        "^Dockerfile$",
      ],
    },
  ],
  packageRules: [
    {
      matchPackageNames: [
        "black",
      ],
      groupName: "lint",
    },
  ],
}
`

func TestAddRegexManager_AppendsWhenNew(t *testing.T) {
	c := parse(t, doc)
	c.AddRegexManager(map[string]any{"customType": "regex", "depNameTemplate": "go"})

	out := render(t, c)
	assert.Contains(t, out, `depNameTemplate: "go",`)
	assert.Contains(t, out, "/** pin python version */")
}

func TestAddRegexManager_ReplacesByComment(t *testing.T) {
	c := parse(t, doc)
	c.AddRegexManager(map[string]any{"customType": "regex", "depNameTemplate": "python"},
		"pin python version")

	list := c.list(managersKey, false)
	require.Equal(t, 1, list.Len())

	out := render(t, c)
	assert.Contains(t, out, "/** pin python version */")
	assert.Contains(t, out, `depNameTemplate: "python",`)
	assert.NotContains(t, out, "fileMatch")
}

func TestAddRegexManager_ReplacesByFields(t *testing.T) {
	c := parse(t, doc)
	c.AddRegexManager(map[string]any{"customType": "regex"})

	list := c.list(managersKey, false)
	require.Equal(t, 1, list.Len())
}

func TestAddRegexManager_CreatesList(t *testing.T) {
	c := parse(t, "{\n  extends: [\n  ],\n}\n")
	c.AddRegexManager(map[string]any{"customType": "regex"}, "new manager")

	out := render(t, c)
	assert.Contains(t, out, "customManagers: [")
	assert.Contains(t, out, "/** new manager */")
}

func TestRemoveRegexManager(t *testing.T) {
	c := parse(t, doc)
	c.RemoveRegexManager(nil, "pin python version")
	assert.NotContains(t, render(t, c), "pin python version")

	// Removing again, and removing from a document without the list, are
	// both no-ops.
	c.RemoveRegexManager(nil, "pin python version")
	empty := parse(t, "{\n  extends: [\n  ],\n}\n")
	empty.RemoveRegexManager(map[string]any{"customType": "regex"})
}

func TestRemoveRegexManager_CommentBeforeBrace(t *testing.T) {
	// The identity comment may sit before the opening brace or inside it,
	// above the first key. Both layouts identify the entry.
	c := parse(t, "{\n  customManagers: [\n    /** pin go version */\n    {\n      customType: \"regex\",\n    },\n  ],\n}\n")
	c.RemoveRegexManager(nil, "pin go version")

	list := c.list(managersKey, false)
	assert.Equal(t, 0, list.Len())
}

func TestAddPackageRule_ThreeTierIdentity(t *testing.T) {
	c := parse(t, doc)

	// Tier two: partial match on matchKeys replaces the existing rule.
	c.AddPackageRule(map[string]any{
		"matchPackageNames": []string{"black"},
		"groupName":         "python lint",
	}, nil, "matchPackageNames")

	list := c.list(rulesKey, false)
	require.Equal(t, 1, list.Len())
	assert.Contains(t, render(t, c), `groupName: "python lint",`)

	// Tier three: full equality.
	c.AddPackageRule(map[string]any{
		"matchPackageNames": []string{"black"},
		"groupName":         "python lint",
	}, nil)
	require.Equal(t, 1, list.Len())

	// Different content appends.
	c.AddPackageRule(map[string]any{"matchManagers": []string{"gomod"}}, nil)
	assert.Equal(t, 2, list.Len())
}

func TestAddPackageRule_CommentIdentity(t *testing.T) {
	c := parse(t, "{\n  packageRules: [\n    {\n      /** group docker */\n      matchManagers: [\n        \"dockerfile\",\n      ],\n    },\n  ],\n}\n")

	c.AddPackageRule(map[string]any{"matchManagers": []string{"docker-compose"}},
		[]string{"group docker"})

	list := c.list(rulesKey, false)
	require.Equal(t, 1, list.Len())
	assert.Contains(t, render(t, c), "docker-compose")
}

func TestAddPackageRule_MatchKeysMissRulesOutFullMatch(t *testing.T) {
	c := parse(t, doc)

	// matchKeys given but no rule matches them: append, even though a
	// rule with fully equal content does not exist either.
	c.AddPackageRule(map[string]any{
		"matchPackageNames": []string{"isort"},
		"groupName":         "lint",
	}, nil, "matchPackageNames")

	list := c.list(rulesKey, false)
	assert.Equal(t, 2, list.Len())
}

func TestRemovePackageRule(t *testing.T) {
	c := parse(t, doc)
	c.RemovePackageRule(map[string]any{
		"matchPackageNames": []string{"black"},
		"groupName":         "lint",
	}, nil)

	list := c.list(rulesKey, false)
	assert.Equal(t, 0, list.Len())
}

func TestMutatedDocumentStillRoundTrips(t *testing.T) {
	c := parse(t, doc)
	c.AddRegexManager(map[string]any{"customType": "regex", "depNameTemplate": "go"}, "go pin")

	out := render(t, c)
	node, err := json5.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, out, json5.Print(node))
}
