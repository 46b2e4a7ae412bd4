package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/scddb"
	main "github.com/fwojciec/scddb/cmd/scddb"
	"github.com/fwojciec/scddb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	newDances := func(deleted *[]string) *mock.DanceService {
		return &mock.DanceService{
			FindDanceByIDFn: func(_ context.Context, id string) (*scddb.Dance, error) {
				switch id {
				case "d1":
					return &scddb.Dance{ID: "d1", Name: "The Duke of Perth"}, nil
				case "d2":
					return &scddb.Dance{ID: "d2", Name: "Petronella"}, nil
				}
				return nil, scddb.Errorf(scddb.ENOTFOUND, "dance not found")
			},
			DeleteDanceFn: func(_ context.Context, id string) error {
				*deleted = append(*deleted, id)
				return nil
			},
		}
	}

	t.Run("deletes every dance when --force is set", func(t *testing.T) {
		t.Parallel()

		var deleted []string
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Dances: newDances(&deleted),
		}

		err := (&main.DeleteCmd{IDs: []string{"d1", "d2"}, Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d2"}, deleted)
		assert.Contains(t, stdout.String(), `Deleted dance "The Duke of Perth"`)
		assert.Contains(t, stdout.String(), `Deleted dance "Petronella"`)
	})

	t.Run("requires --force flag", func(t *testing.T) {
		t.Parallel()

		var deleted []string
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Dances: newDances(&deleted),
		}

		err := (&main.DeleteCmd{IDs: []string{"d1"}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, scddb.EINVALID, scddb.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
		assert.Empty(t, deleted)
	})

	t.Run("stops at a missing dance", func(t *testing.T) {
		t.Parallel()

		var deleted []string
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Dances: newDances(&deleted),
		}

		err := (&main.DeleteCmd{IDs: []string{"d1", "nope", "d2"}, Force: true}).Run(deps)

		assert.Equal(t, scddb.ENOTFOUND, scddb.ErrorCode(err))
		assert.Equal(t, []string{"d1"}, deleted)
		assert.Contains(t, stderr.String(), `"nope" not found`)
	})
}
