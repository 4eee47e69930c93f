package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrSessionNotOpen = core.NewNotFoundError("attendance session")
	errInvalidDate    = core.NewValidationError(nil, core.FieldError{Field: "date", Error: "date must be formatted as YYYY-MM-DD"})
)

type (
	// Roster lists the students of a class, in display order.
	Roster interface {
		ClassStudentIDs(ctx context.Context, classID string) ([]string, error)
	}

	// Repository is the attendance ledger.
	// SaveAttendance replaces any record of the same class & date.
	Repository interface {
		SaveAttendance(ctx context.Context, rec Record) (Record, error)
		ListAttendance(ctx context.Context, classID string) ([]Record, error)
	}

	sessionKey struct {
		classID string
		date    string
	}

	Service struct {
		repo   Repository
		roster Roster

		mu       sync.RWMutex
		sessions map[sessionKey]Session
	}
)

func NewService(repo Repository, roster Roster) *Service {
	return &Service{
		repo:     repo,
		roster:   roster,
		sessions: make(map[sessionKey]Session),
	}
}

// Open starts a fresh session for the class meeting, every student PRESENT.
// Opening an already open meeting resets it.
func (svc *Service) Open(ctx context.Context, classID, date string) (Session, error) {
	if !core.IsISODate(date) {
		return Session{}, errInvalidDate
	}
	ids, err := svc.roster.ClassStudentIDs(ctx, classID)
	if err != nil {
		return Session{}, errors.Wrap(err, "getting class roster")
	}
	sess := NewSession(classID, date, ids)

	svc.mu.Lock()
	svc.sessions[sessionKey{classID, date}] = sess
	svc.mu.Unlock()
	return sess, nil
}

func (svc *Service) Session(_ context.Context, classID, date string) (Session, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	sess, ok := svc.sessions[sessionKey{classID, date}]
	if !ok {
		return Session{}, ErrSessionNotOpen
	}
	return sess, nil
}

func (svc *Service) Toggle(_ context.Context, classID, date, studentID string) (Session, error) {
	key := sessionKey{classID, date}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	sess, ok := svc.sessions[key]
	if !ok {
		return Session{}, ErrSessionNotOpen
	}
	next, err := sess.Toggle(studentID)
	if err != nil {
		return sess, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
	}
	svc.sessions[key] = next
	return next, nil
}

// Commit saves the session snapshot to the ledger. The session stays open.
func (svc *Service) Commit(ctx context.Context, classID, date, committedBy string) (Record, error) {
	sess, err := svc.Session(ctx, classID, date)
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:          uuid.New().String(),
		ClassID:     classID,
		Date:        date,
		Statuses:    sess.Snapshot(),
		CommittedBy: committedBy,
		CommittedAt: NowFunc().UTC(),
	}
	rec, err = svc.repo.SaveAttendance(ctx, rec)
	return rec, errors.Wrap(err, "saving attendance")
}

func (svc *Service) Records(ctx context.Context, classID string) ([]Record, error) {
	recs, err := svc.repo.ListAttendance(ctx, classID)
	return recs, errors.Wrap(err, "listing attendance")
}

// Summary computes the attendance rate of every student of the class roster over the committed records.
func (svc *Service) Summary(ctx context.Context, classID string, rules Rules) ([]StudentSummary, error) {
	ids, err := svc.roster.ClassStudentIDs(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "getting class roster")
	}
	recs, err := svc.Records(ctx, classID)
	if err != nil {
		return nil, err
	}

	sums := make([]StudentSummary, 0, len(ids))
	for _, id := range ids {
		sums = append(sums, summarize(id, recs, rules))
	}
	return sums, nil
}

// StudentRate returns one student's attendance summary within a class.
func (svc *Service) StudentRate(ctx context.Context, classID, studentID string, rules Rules) (StudentSummary, error) {
	recs, err := svc.Records(ctx, classID)
	if err != nil {
		return StudentSummary{}, err
	}
	return summarize(studentID, recs, rules), nil
}

func summarize(studentID string, recs []Record, rules Rules) StudentSummary {
	sum := StudentSummary{StudentID: studentID}
	for _, rec := range recs {
		st, ok := rec.Statuses[studentID]
		if !ok {
			continue
		}
		sum.Meetings++
		if rules.IsAbsence(st) {
			sum.Absences++
		}
	}
	sum.Rate = Rate(sum.Meetings, sum.Absences)
	sum.BelowMinimum = sum.Rate < rules.MinAttendance
	return sum
}
