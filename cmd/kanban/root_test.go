package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
	"github.com/nhle/kanban/tests/testutil"
)

// cli runs the root command against a SQLite file in a temp dir.
type cli struct {
	t      *testing.T
	config string
	dir    string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	yaml := "database:\n  driver: sqlite\n  dsn: " + filepath.Join(dir, "data", "kanban.db") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(config, []byte(yaml), 0o644))
	return &cli{t: t, config: config, dir: dir}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", c.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(v any, args ...string) {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "kanban %s", strings.Join(args, " "))
	if v != nil {
		require.NoError(c.t, json.Unmarshal([]byte(out), v))
	}
}

func lines(t *testing.T, out string) []string {
	t.Helper()
	var ls []string
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		ls = append(ls, sc.Text())
	}
	return ls
}

func TestBoardListCardFlow(t *testing.T) {
	c := newCLI(t)

	var b model.Board
	c.mustRun(&b, "board", "create", "--org", "acme", "--title", "Launch")
	assert.Equal(t, "acme", b.OrganizationID)

	var todo, done model.List
	c.mustRun(&todo, "list", "create", "--board", b.ID, "--title", "Todo")
	c.mustRun(&done, "list", "create", "--board", b.ID, "--title", "Done")
	assert.Equal(t, 0, todo.Order)
	assert.Equal(t, 1, done.Order)

	var c1, c2 model.Card
	c.mustRun(&c1, "card", "create", "--list", todo.ID, "--title", "Draft", "--priority", "high", "--due", "2026-12-01")
	c.mustRun(&c2, "card", "create", "--list", todo.ID, "--title", "Review")
	assert.Equal(t, model.PriorityHigh, c1.Priority)
	assert.Equal(t, model.PriorityMedium, c2.Priority)
	require.NotNil(t, c1.DueDate)

	var res model.BulkResult
	c.mustRun(&res, "bulk", "move", "--cards", c2.ID+","+c1.ID, "--to", done.ID)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Updated)

	var snap model.BoardSnapshot
	c.mustRun(&snap, "board", "show", b.ID)
	require.Len(t, snap.Lists, 2)
	assert.Empty(t, snap.Lists[0].Cards)
	require.Len(t, snap.Lists[1].Cards, 2)
	assert.Equal(t, "Review", snap.Lists[1].Cards[0].Title)
	assert.Equal(t, "Draft", snap.Lists[1].Cards[1].Title)

	c.mustRun(&res, "bulk", "label", "--cards", c1.ID, "--board", b.ID, "--labels", "bug,ux")
	assert.Equal(t, 2, res.Updated)
	c.mustRun(&res, "bulk", "assign", "--cards", c1.ID, "--users", "ana")
	c.mustRun(nil, "card", "comment", c1.ID, "--user", "ana", "--body", "looks good")

	var detail struct {
		model.Card
		Labels    []model.Label        `json:"labels"`
		Assignees []model.CardAssignee `json:"assignees"`
		Comments  []model.Comment      `json:"comments"`
		Activity  []model.CardActivity `json:"activity"`
	}
	c.mustRun(&detail, "card", "show", c1.ID)
	assert.Equal(t, "Draft", detail.Title)
	assert.Len(t, detail.Labels, 2)
	assert.Len(t, detail.Assignees, 1)
	assert.Len(t, detail.Comments, 1)
	assert.NotEmpty(t, detail.Activity)
}

func TestReorderRenumberAndExport(t *testing.T) {
	c := newCLI(t)

	var b model.Board
	c.mustRun(&b, "board", "create", "--org", "acme", "--title", "Ops")
	var l model.List
	c.mustRun(&l, "list", "create", "--board", b.ID, "--title", "Queue")
	var a, bb model.Card
	c.mustRun(&a, "card", "create", "--list", l.ID, "--title", "A")
	c.mustRun(&bb, "card", "create", "--list", l.ID, "--title", "B")

	out, err := c.run("card", "reorder", a.ID+"=5", bb.ID+"=3")
	require.NoError(t, err)
	assert.Len(t, lines(t, out), 2)

	var changed map[string]int
	c.mustRun(&changed, "renumber", "--list", l.ID)
	assert.Equal(t, 2, changed["changed"])

	var snap model.BoardSnapshot
	c.mustRun(&snap, "board", "show", b.ID)
	require.Len(t, snap.Lists[0].Cards, 2)
	assert.Equal(t, "B", snap.Lists[0].Cards[0].Title)
	assert.Equal(t, 0, snap.Lists[0].Cards[0].Order)
	assert.Equal(t, 1, snap.Lists[0].Cards[1].Order)

	output := filepath.Join(c.dir, "out", "ops.xlsx")
	var exported map[string]any
	c.mustRun(&exported, "export", "--board", b.ID, "--output", output)
	assert.Equal(t, output, exported["output"])
	_, err = os.Stat(output)
	assert.NoError(t, err)
}

func TestMigrateReportsSchemaVersion(t *testing.T) {
	c := newCLI(t)

	var res map[string]any
	c.mustRun(&res, "migrate")
	assert.Equal(t, "sqlite", res["driver"])
	assert.EqualValues(t, 1, res["schema_version"])
}

func TestExitCodes(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("list", "delete", "missing", "--board", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, exitNotFound, exitCode(err))

	_, err = c.run("card", "reorder", "oops")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = c.run("card", "create", "--list", "x", "--title", "t", "--due", "tomorrow")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = c.run("board", "list", "--bogus")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))

	bad := filepath.Join(c.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("database:\n  driver: oracle\n"), 0o644))
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", bad, "migrate"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, exitConfig, exitCode(err))

	assert.Equal(t, exitOK, exitCode(nil))
}

func TestParseOrderArgs(t *testing.T) {
	updates, err := parseOrderArgs([]string{"a=0", "b=3@list-2"}, true)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, model.OrderUpdate{ID: "a", Order: 0}, updates[0])
	require.NotNil(t, updates[1].ListID)
	assert.Equal(t, "list-2", *updates[1].ListID)
	assert.Equal(t, 3, updates[1].Order)

	for _, bad := range []string{"a", "=1", "a=-1", "a=x"} {
		_, err := parseOrderArgs([]string{bad}, true)
		assert.Error(t, err, bad)
	}
	_, err = parseOrderArgs([]string{"a=1@l"}, false)
	assert.Error(t, err, "lists cannot carry a target list")
}

func TestSeedBoard(t *testing.T) {
	s := testutil.NewTestStore(t)

	snap, err := seedBoard(context.Background(), s, "org-test", "Sample")
	require.NoError(t, err)
	require.Len(t, snap.Lists, 3)
	assert.Len(t, snap.Lists[0].Cards, 3)

	first := snap.Lists[0].Cards[0]
	require.NotNil(t, first.DueDate)
	labels, err := s.GetLabelsForCard(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "docs", labels[0].Name)
}
