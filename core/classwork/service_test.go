package classwork_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldash/core/classwork"
	testutil "github.com/trezcool/schooldash/tests"
)

func TestService_AddContent(t *testing.T) {
	defer testutil.FreezeTime()()
	deps := testutil.PrepareDeps()
	svc := deps.ClassworkSvc
	ctx := context.Background()

	_, err := svc.AddContent(ctx, "c1", classwork.NewContent{Description: "  "})
	assert.Error(t, err)
	_, err = svc.AddContent(ctx, "c1", classwork.NewContent{Description: "Fractions", Date: "yesterday"})
	assert.Error(t, err)
	_, err = svc.AddContent(ctx, "c1", classwork.NewContent{Description: "Fractions", Attachments: -1})
	assert.Error(t, err)

	c, err := svc.AddContent(ctx, "c1", classwork.NewContent{Description: "<b>Fractions</b>", Attachments: 1})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-16", c.Date)
	assert.Equal(t, "Fractions", c.Description)

	cs, err := svc.Contents(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, cs, 4)
	assert.Equal(t, c.ID, cs[0].ID, "newest first")
	assert.Equal(t, "ct1", cs[1].ID)

	cs, err = svc.Contents(ctx, "c2")
	require.NoError(t, err)
	assert.Empty(t, cs)
}

func TestService_AddTask(t *testing.T) {
	defer testutil.FreezeTime()()
	deps := testutil.PrepareDeps()
	svc := deps.ClassworkSvc
	ctx := context.Background()

	_, err := svc.AddTask(ctx, "c1", classwork.NewTask{Title: "Sheet 6"})
	assert.Error(t, err)

	task, err := svc.AddTask(ctx, "c1", classwork.NewTask{Title: "Sheet 6", DueDate: "2024-05-20", IsGraded: true})
	require.NoError(t, err)

	ts, err := svc.Tasks(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, ts, 3)
	assert.Equal(t, task, ts[0])

	pending, err := svc.PendingTasks(ctx, "c1", "c2")
	require.NoError(t, err)
	ids := make([]string, 0, len(pending))
	for _, p := range pending {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{task.ID, "t1", "t2"}, ids)
}
