package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/scddb"
	main "github.com/fwojciec/scddb/cmd/scddb"
	"github.com/fwojciec/scddb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists dances one per line", func(t *testing.T) {
		t.Parallel()

		var got scddb.DanceFilter
		dances := &mock.DanceService{
			FindDancesFn: func(_ context.Context, filter scddb.DanceFilter) ([]*scddb.Dance, error) {
				got = filter
				return []*scddb.Dance{
					{ID: "d1", Name: "The Duke of Perth", DanceType: "Reel", BarsCount: 32, Repetitions: 8, Formation: scddb.LongwiseSet},
					{ID: "d2", Name: "Mairi's Wedding", DanceType: "Reel", BarsCount: 40, Repetitions: 8, Formation: scddb.LongwiseSet, Author: "James B Cosh"},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Dances: dances,
		}

		cmd := &main.ListCmd{Name: "perth wedding", Type: "Reel", Limit: 10}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "perth wedding", got.Name)
		require.NotNil(t, got.DanceType)
		assert.Equal(t, "Reel", *got.DanceType)
		assert.Nil(t, got.Formation)
		assert.Equal(t, 10, got.Limit)

		output := stdout.String()
		assert.Contains(t, output, "d1  The Duke of Perth")
		assert.Contains(t, output, "8×40")
		assert.Contains(t, output, "James B Cosh")
	})

	t.Run("shows helpful message when no dances exist", func(t *testing.T) {
		t.Parallel()

		dances := &mock.DanceService{
			FindDancesFn: func(_ context.Context, _ scddb.DanceFilter) ([]*scddb.Dance, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Dances: dances,
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "scddb import")
	})

	t.Run("reports store errors", func(t *testing.T) {
		t.Parallel()

		dances := &mock.DanceService{
			FindDancesFn: func(_ context.Context, _ scddb.DanceFilter) ([]*scddb.Dance, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Dances: dances,
		}

		err := (&main.ListCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	dance := &scddb.Dance{
		ID:           "d1",
		Name:         "The Duke of Perth",
		DanceType:    "Reel",
		BarsCount:    32,
		Repetitions:  8,
		CouplesCount: 3,
		SetFormat:    4,
		Formation:    scddb.LongwiseSet,
		Figures:      []scddb.Figure{{BarsLabel: "1-8", Text: "1s turn RH, cast off"}},
	}
	dances := &mock.DanceService{
		FindDanceByIDFn: func(_ context.Context, id string) (*scddb.Dance, error) {
			if id == "d1" {
				return dance, nil
			}
			return nil, scddb.Errorf(scddb.ENOTFOUND, "dance not found")
		},
	}

	t.Run("prints dance with figures", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Dances: dances}

		err := (&main.ShowCmd{ID: "d1"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "## The Duke of Perth")
		assert.Contains(t, stdout.String(), "1-8      1s turn RH, cast off")
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Dances: dances}

		err := (&main.ShowCmd{ID: "d1", JSON: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"name": "The Duke of Perth"`)
	})

	t.Run("reports missing dance", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Dances: dances}

		err := (&main.ShowCmd{ID: "nope"}).Run(deps)

		assert.Equal(t, scddb.ENOTFOUND, scddb.ErrorCode(err))
		assert.Contains(t, stderr.String(), "scddb list")
	})
}

func TestRefsCmd_Run(t *testing.T) {
	t.Parallel()

	var kind scddb.ReferenceKind
	refs := &mock.ReferenceService{
		FindReferencesFn: func(_ context.Context, k scddb.ReferenceKind) ([]*scddb.Reference, error) {
			kind = k
			return []*scddb.Reference{{ID: 3, Kind: k, Name: "Jig"}, {ID: 1, Kind: k, Name: "Reel"}}, nil
		},
	}

	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, References: refs}

	err := (&main.RefsCmd{Kind: "dance_type"}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, scddb.RefDanceType, kind)
	assert.Equal(t, "3  Jig\n1  Reel\n", stdout.String())
}
