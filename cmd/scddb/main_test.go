package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/scddb"
	main "github.com/fwojciec/scddb/cmd/scddb"
	"github.com/fwojciec/scddb/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a configuration backed by a fresh SQLite file.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Store:  config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "scddb.db")},
		Source: config.SourceConfig{BaseURL: "https://my.strathspey.org", DancePath: "/dd/dance/%d/"},
		Fetch:  config.FetchConfig{Timeout: time.Second, ImageConcurrency: 1},
		Blob:   config.BlobConfig{Backend: config.BlobNone},
		Cache:  config.CacheConfig{ReferenceSize: 16},
		Log:    config.LogConfig{Level: "error", Format: "text"},
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints help and fails", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		m := &main.Main{Config: testConfig(t)}

		err := m.Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "import")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		m := &main.Main{Config: testConfig(t)}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "refs")
	})

	t.Run("parse prints a saved page as JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		m := &main.Main{Config: testConfig(t)}

		err := m.Run(context.Background(), []string{"parse", "testdata/dance.html", "--json"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		var d scddb.Dance
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &d))
		assert.Equal(t, "The Duke of Perth", d.Name)
		assert.Equal(t, "Reel", d.DanceType)
		assert.Equal(t, 3, d.CouplesCount)
		assert.Len(t, d.Figures, 2)
		assert.Equal(t, "https://my.strathspey.org/dd/dance/1234/", d.SourceURL)
	})

	t.Run("parse prints a readable summary", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		m := &main.Main{Config: testConfig(t)}

		err := m.Run(context.Background(), []string{"parse", "testdata/dance.html"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "## The Duke of Perth")
		assert.Contains(t, stdout.String(), "1s turn corners")
	})

	t.Run("list on an empty catalogue", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		m := &main.Main{Config: testConfig(t)}

		err := m.Run(context.Background(), []string{"list"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No dances found")
	})

	t.Run("refs lists the seeded set types", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		m := &main.Main{Config: testConfig(t)}

		err := m.Run(context.Background(), []string{"refs", "set_type"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), scddb.LongwiseSet)
		assert.Contains(t, stdout.String(), scddb.SetFormatName(3))
	})

	t.Run("refs rejects an unknown table", func(t *testing.T) {
		t.Parallel()

		m := &main.Main{Config: testConfig(t)}

		err := m.Run(context.Background(), []string{"refs", "composers"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Error(t, err)
	})

	t.Run("import without sources fails", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		m := &main.Main{Config: testConfig(t)}

		err := m.Run(context.Background(), []string{"import"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, scddb.EINVALID, scddb.ErrorCode(err))
		assert.Contains(t, stderr.String(), "nothing to import")
	})
}
