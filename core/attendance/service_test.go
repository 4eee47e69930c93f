package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldash/core"
)

type rosterMock map[string][]string

func (r rosterMock) ClassStudentIDs(_ context.Context, classID string) ([]string, error) {
	ids, ok := r[classID]
	if !ok {
		return nil, core.NewNotFoundError("class")
	}
	return ids, nil
}

type ledgerMock struct {
	mu   sync.Mutex
	recs []Record
}

func (l *ledgerMock) SaveAttendance(_ context.Context, rec Record) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.recs {
		if r.ClassID == rec.ClassID && r.Date == rec.Date {
			l.recs[i] = rec
			return rec, nil
		}
	}
	l.recs = append(l.recs, rec)
	return rec, nil
}

func (l *ledgerMock) ListAttendance(_ context.Context, classID string) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Record
	for _, r := range l.recs {
		if r.ClassID == classID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestService() (*Service, *ledgerMock) {
	ledger := new(ledgerMock)
	return NewService(ledger, rosterMock{"c1": {"st1", "st2", "st3"}}), ledger
}

func TestService_OpenToggleCommit(t *testing.T) {
	svc, ledger := newTestService()
	ctx := context.Background()
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	_, err := svc.Open(ctx, "c1", "20/05/2024")
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))

	_, err = svc.Open(ctx, "nope", "2024-05-20")
	assert.True(t, core.IsNotFound(err))

	_, err = svc.Toggle(ctx, "c1", "2024-05-20", "st1")
	assert.Equal(t, ErrSessionNotOpen, err)

	sess, err := svc.Open(ctx, "c1", "2024-05-20")
	require.NoError(t, err)
	assert.Len(t, sess.Marks, 3)

	_, err = svc.Toggle(ctx, "c1", "2024-05-20", "st2")
	require.NoError(t, err)
	sess, err = svc.Toggle(ctx, "c1", "2024-05-20", "st3")
	require.NoError(t, err)
	sess, err = svc.Toggle(ctx, "c1", "2024-05-20", "st3")
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "c1", "2024-05-20", "st9")
	require.True(t, errors.As(err, &vErr))

	rec, err := svc.Commit(ctx, "c1", "2024-05-20", "u2")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, now, rec.CommittedAt)
	assert.Equal(t, "u2", rec.CommittedBy)
	assert.Equal(t, map[string]Status{"st1": StatusPresent, "st2": StatusAbsent, "st3": StatusLate}, rec.Statuses)
	assert.Len(t, ledger.recs, 1)

	// committing keeps the session open
	open, err := svc.Session(ctx, "c1", "2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, sess, open)

	// re-opening resets every student to PRESENT
	sess, err = svc.Open(ctx, "c1", "2024-05-20")
	require.NoError(t, err)
	for _, m := range sess.Marks {
		assert.Equal(t, StatusPresent, m.Status)
	}
}

func TestService_Summary(t *testing.T) {
	svc, ledger := newTestService()
	ctx := context.Background()
	ledger.recs = []Record{
		{ClassID: "c1", Date: "2024-05-20", Statuses: map[string]Status{"st1": StatusPresent, "st2": StatusAbsent, "st3": StatusLate}},
		{ClassID: "c1", Date: "2024-05-21", Statuses: map[string]Status{"st1": StatusPresent, "st2": StatusAbsent, "st3": StatusExcused}},
		{ClassID: "c1", Date: "2024-05-22", Statuses: map[string]Status{"st1": StatusPresent, "st2": StatusPresent}},
		{ClassID: "c2", Date: "2024-05-22", Statuses: map[string]Status{"st1": StatusAbsent}},
	}

	tests := []struct {
		name  string
		rules Rules
		want  []StudentSummary
	}{
		{
			name:  "lenient",
			rules: Rules{MinAttendance: 75},
			want: []StudentSummary{
				{StudentID: "st1", Meetings: 3, Absences: 0, Rate: 100},
				{StudentID: "st2", Meetings: 3, Absences: 2, Rate: 100.0 / 3, BelowMinimum: true},
				{StudentID: "st3", Meetings: 2, Absences: 0, Rate: 100},
			},
		},
		{
			name:  "strict",
			rules: Rules{MinAttendance: 70, LateCountsAsAbsence: true, ExcusedCountsAsAbsence: true},
			want: []StudentSummary{
				{StudentID: "st1", Meetings: 3, Absences: 0, Rate: 100},
				{StudentID: "st2", Meetings: 3, Absences: 2, Rate: 100.0 / 3, BelowMinimum: true},
				{StudentID: "st3", Meetings: 2, Absences: 2, Rate: 0, BelowMinimum: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Summary(ctx, "c1", tt.rules)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	sum, err := svc.StudentRate(ctx, "c2", "st1", Rules{MinAttendance: 75})
	require.NoError(t, err)
	assert.Equal(t, StudentSummary{StudentID: "st1", Meetings: 1, Absences: 1, Rate: 0, BelowMinimum: true}, sum)
}

func TestService_ConcurrentToggles(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Open(ctx, "c1", "2024-05-20")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Toggle(ctx, "c1", "2024-05-20", "st1")
		}()
	}
	wg.Wait()

	sess, err := svc.Session(ctx, "c1", "2024-05-20")
	require.NoError(t, err)
	st, _ := sess.Status("st1")
	assert.Equal(t, StatusPresent, st) // 8 steps = 2 full cycles
}
