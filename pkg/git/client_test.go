package git

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubClient(responses map[string]string, errs map[string]error) (*Client, *[][]string) {
	var calls [][]string
	c := NewClient("/vault", nil)
	c.run = func(_ context.Context, args ...string) (string, error) {
		calls = append(calls, args)
		if err := errs[args[0]]; err != nil {
			return "", err
		}
		return responses[args[0]], nil
	}
	return c, &calls
}

func TestIsRepo(t *testing.T) {
	c, _ := stubClient(map[string]string{"rev-parse": "true"}, nil)
	assert.True(t, c.IsRepo(context.Background()))

	c, _ = stubClient(nil, map[string]error{"rev-parse": errors.New("not a repository")})
	assert.False(t, c.IsRepo(context.Background()))
}

func TestCommitDocument(t *testing.T) {
	c, calls := stubClient(map[string]string{"status": " M todos.md"}, nil)

	err := c.CommitDocument(context.Background(), "todos.md", "revq: 2 new")
	require.NoError(t, err)

	require.Len(t, *calls, 3)
	assert.Equal(t, "add", (*calls)[0][0])
	assert.Equal(t, "commit", (*calls)[2][0])
	assert.Contains(t, (*calls)[2], "revq: 2 new")
}

func TestCommitDocumentCleanFile(t *testing.T) {
	c, calls := stubClient(map[string]string{"status": ""}, nil)

	err := c.CommitDocument(context.Background(), "todos.md", "revq: nothing")
	require.NoError(t, err)

	// add, status, no commit
	require.Len(t, *calls, 2)
}

func TestCommitDocumentAddFails(t *testing.T) {
	c, _ := stubClient(nil, map[string]error{"add": errors.New("pathspec error")})

	err := c.CommitDocument(context.Background(), "todos.md", "msg")
	assert.Error(t, err)
}
