package bootstrap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSeed = `
administrators:
  - object_id: 7f9c24e5-0a35-4e9f-9c7b-0f3d6a1b2c3d
  - upn: alice@example.com
projects:
  - title: Infrastructure
    description: Shared infra credentials
    category: Ops
    assets:
      - kind: credential
        login: root
        domain: db.internal
        value: hunter2
      - kind: note
        title: Runbook
        body: See the wiki.
`

func TestParse(t *testing.T) {
	seed, err := Parse(strings.NewReader(validSeed))
	require.NoError(t, err)

	require.Len(t, seed.Administrators, 2)
	assert.Equal(t, "7f9c24e5-0a35-4e9f-9c7b-0f3d6a1b2c3d", seed.Administrators[0].ObjectID)
	assert.Equal(t, "alice@example.com", seed.Administrators[1].Upn)

	require.Len(t, seed.Projects, 1)
	project := seed.Projects[0]
	assert.Equal(t, "Infrastructure", project.Title)
	require.Len(t, project.Assets, 2)
	assert.Equal(t, "credential", project.Assets[0].Kind)
	assert.Equal(t, "Runbook", project.Assets[1].Title)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("projects:\n  - name: wrong-key\n"))
	assert.Error(t, err)
}

func TestParseRejectsUntitledProject(t *testing.T) {
	_, err := Parse(strings.NewReader("projects:\n  - description: no title\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no title")
}

func TestParseRejectsUnknownAssetKind(t *testing.T) {
	in := `
projects:
  - title: P
    assets:
      - kind: certificate
`
	_, err := Parse(strings.NewReader(in))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestParseRejectsAnonymousAdministrator(t *testing.T) {
	_, err := Parse(strings.NewReader("administrators:\n  - {}\n"))
	assert.Error(t, err)
}
