package lineage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraArgs_MissingContacts(t *testing.T) {
	for name, args := range map[string][]string{
		"nil":   nil,
		"empty": {},
		"blank": {"--contacts=", "--parent=a"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseExtraArgs("/project", args)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArguments))
			assert.Contains(t, err.Error(), "required list of contact_id")
		})
	}
}

func TestParseExtraArgs_MissingParent(t *testing.T) {
	_, err := ParseExtraArgs("/project", []string{"--contacts=a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArguments))
	assert.Contains(t, err.Error(), "required parameter parent")
}

func TestParseExtraArgs_Full(t *testing.T) {
	args := []string{"--contacts=food,is,tasty", "--parent=bar", "--docDirectoryPath=/", "--force=hi"}
	req, err := ParseExtraArgs("/project", args)
	require.NoError(t, err)
	assert.Equal(t, &MoveRequest{
		ContactIDs:       []string{"food", "is", "tasty"},
		ParentID:         "bar",
		DocDirectoryPath: "/",
		Force:            true,
	}, req)
}

func TestParseExtraArgs_Defaults(t *testing.T) {
	req, err := ParseExtraArgs("/project", []string{"--contacts=a", "--parent=root", "--unrelated=1", "positional"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/project", "json_docs"), req.DocDirectoryPath)
	assert.False(t, req.Force)
	assert.Equal(t, RootID, req.ParentID)
}

func TestParseExtraArgs_BareForceAndRelativeDir(t *testing.T) {
	req, err := ParseExtraArgs("/project", []string{"--contacts=a", "--contacts=b", "--parent=p", "--docDirectoryPath=out", "--force"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, req.ContactIDs)
	assert.Equal(t, filepath.Join("/project", "out"), req.DocDirectoryPath)
	assert.True(t, req.Force)
}

func TestParseExtraArgs_ContactIDsAreSplitOnCommasOnly(t *testing.T) {
	req, err := ParseExtraArgs("/project", []string{`--contacts=say "hi",plain, ,'quoted'`, "--parent=p"})
	require.NoError(t, err)
	assert.Equal(t, []string{`say "hi"`, "plain", "'quoted'"}, req.ContactIDs)
}
