// filepath: internal/cli/commands_test.go
package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
	"trialdb/internal/config"
	"trialdb/internal/initconfig"
	"trialdb/internal/models"
	"trialdb/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `subject,project,condition,age,sex,treatment,response,sample,sample_type,time_from_treatment_start,b_cell,cd8_t_cell,cd4_t_cell,nk_cell,monocyte
S1,prj1,melanoma,57,M,miraclib,yes,SMP1,PBMC,0,50,20,20,5,5
S2,prj1,melanoma,61,F,miraclib,no,SMP2,PBMC,0,10,30,30,20,10
S2,prj1,melanoma,61,F,miraclib,no,SMP3,PBMC,7,12,28,30,20,10
`

// testEnv holds the paths of an isolated CLI run.
type testEnv struct {
	dir    string
	db     string
	source string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:    dir,
		db:     filepath.Join(dir, "trialdb.db"),
		source: filepath.Join(dir, "cell-count.csv"),
	}
	require.NoError(t, os.WriteFile(env.source, []byte(testSource), 0o644))
	return env
}

// run executes the CLI with args against the test store and returns stdout.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--config_path", filepath.Join(e.dir, "none.toml"), "--db-path", e.db))
	err := root.Execute()
	return out.String(), err
}

func TestCommands_BeforeLoad(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"overview", "compare", "subset", "info", "verify"} {
		_, err := env.run(t, name)
		assert.ErrorIs(t, err, services.ErrStoreNotLoaded, name)
	}
	_, statErr := os.Stat(env.db)
	assert.True(t, os.IsNotExist(statErr), "queries must not create the store")
}

func TestCommands_LoadAndQuery(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "load", "--source", env.source, "--format", "json")
	require.NoError(t, err)
	var report models.LoadReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, int64(2), report.Subjects)
	assert.Equal(t, int64(3), report.Samples)
	assert.Equal(t, int64(15), report.CellCounts)

	out, err = env.run(t, "overview", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "sample,total_count,population,count,percentage\n")
	assert.Contains(t, out, "SMP1,100,b_cell,50,50.00\n")

	out, err = env.run(t, "compare", "--format", "json")
	require.NoError(t, err)
	var result models.ComparisonResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Rows, 15)
	require.Len(t, result.Stats, 5)
	assert.Equal(t, 1, result.Stats[0].Responders)
	assert.Equal(t, 2, result.Stats[0].NonResponders)

	out, err = env.run(t, "subset", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "project_counts:")
	assert.Contains(t, out, "key: prj1")

	out, err = env.run(t, "info", "--format", "json")
	require.NoError(t, err)
	var info models.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.NotNil(t, info.LastLoad)
	assert.Equal(t, report.RunID, info.LastLoad.RunID)
	assert.Equal(t, env.db, info.Database)

	out, err = env.run(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "(no rows)")

	out, err = env.run(t, "overview")
	require.NoError(t, err)
	assert.Contains(t, out, "Population frequencies")
}

func TestCommands_FailedLoadKeepsStore(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "load", "--source", env.source)
	require.NoError(t, err)

	bad := filepath.Join(env.dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("subject,sample\nS1,SMP1\n"), 0o644))
	_, err = env.run(t, "load", "--source", bad)
	assert.ErrorIs(t, err, services.ErrMissingColumn)

	out, err := env.run(t, "overview", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "SMP3,")
}

func TestCommands_SchemaEnsure(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "schema", "ensure")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")

	_, err = env.run(t, "schema", "status")
	assert.NoError(t, err)

	out, err = env.run(t, "overview", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestCommands_Clean(t *testing.T) {
	env := newTestEnv(t)
	stale := env.db + ".loading-01HSTALE"
	fresh := env.db + ".loading-01HFRESH"
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))
	require.NoError(t, os.WriteFile(stale+"-journal", []byte("j"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("fresh"), 0o644))
	old := time.Now().Add(-3 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	out, err := env.run(t, "clean", "--max-age", "2d", "--format", "json")
	require.NoError(t, err)

	var report models.HousekeepingReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.FilesRemoved)
	assert.Equal(t, int64(6), report.SpaceFreedBytes)
	assert.NoFileExists(t, stale)
	assert.NoFileExists(t, stale+"-journal")
	assert.FileExists(t, fresh)

	_, err = env.run(t, "clean", "--max-age", "fortnight")
	assert.Error(t, err)
}

func TestCommands_ConfigInitAndShow(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "none.toml")

	out, err := env.run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, err = env.run(t, "config", "init")
	assert.ErrorIs(t, err, initconfig.ErrConfigExists)

	t.Setenv("TRIALDB_ALPHA", "0.01")
	_, err = env.run(t, "config", "init", "--force")
	require.NoError(t, err)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.01, loaded.Analysis.Alpha)
	assert.Equal(t, env.db, loaded.Database.Path)

	out, err = env.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[analysis]")
	assert.Contains(t, out, "[housekeeping]")
}
