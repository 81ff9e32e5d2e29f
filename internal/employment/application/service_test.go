package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/recruitment/internal/employment/domain"
)

type fakeEmploymentRepo struct {
	byApplication map[string]*domain.EmploymentRecord
	saveErr       error
	// 模拟并发：Save 失败的同时另一事务已落库
	insertOnSaveFailure *domain.EmploymentRecord
}

func newFakeEmploymentRepo() *fakeEmploymentRepo {
	return &fakeEmploymentRepo{byApplication: make(map[string]*domain.EmploymentRecord)}
}

func (r *fakeEmploymentRepo) Save(_ context.Context, record *domain.EmploymentRecord) error {
	if r.saveErr != nil {
		if r.insertOnSaveFailure != nil {
			r.byApplication[r.insertOnSaveFailure.ApplicationID] = r.insertOnSaveFailure
		}
		return r.saveErr
	}
	r.byApplication[record.ApplicationID] = record
	return nil
}

func (r *fakeEmploymentRepo) GetByApplication(_ context.Context, applicationID string) (*domain.EmploymentRecord, error) {
	return r.byApplication[applicationID], nil
}

func (r *fakeEmploymentRepo) ListByStudent(_ context.Context, studentID string, _, _ int) ([]*domain.EmploymentRecord, int64, error) {
	var out []*domain.EmploymentRecord
	for _, rec := range r.byApplication {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func TestCreateFromAcceptance(t *testing.T) {
	repo := newFakeEmploymentRepo()
	svc := NewEmploymentService(repo)
	cmd := CreateFromAcceptanceCommand{
		ApplicationID: "APP-1",
		StudentID:     "stu-1",
		CompanyID:     "com-1",
		JobID:         "job-1",
		StartDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	record, err := svc.CreateFromAcceptance(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStatusUpcoming, record.Status)
	assert.Equal(t, domain.DefaultCadence, record.Cadence)
	assert.Equal(t, domain.DefaultRequiredDocs, record.RequiredDocs)
	assert.NotEmpty(t, record.ID)
}

func TestCreateFromAcceptance_Idempotent(t *testing.T) {
	repo := newFakeEmploymentRepo()
	svc := NewEmploymentService(repo)
	cmd := CreateFromAcceptanceCommand{ApplicationID: "APP-1", StudentID: "stu-1"}

	first, err := svc.CreateFromAcceptance(context.Background(), cmd)
	require.NoError(t, err)
	second, err := svc.CreateFromAcceptance(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.byApplication, 1)
}

func TestCreateFromAcceptance_ConcurrentDuplicate(t *testing.T) {
	repo := newFakeEmploymentRepo()
	svc := NewEmploymentService(repo)

	// 唯一索引冲突时回查已存在的记录
	existing := &domain.EmploymentRecord{ID: "EMP-0", ApplicationID: "APP-1", StudentID: "stu-1"}
	repo.saveErr = errors.New("Error 1062: Duplicate entry")
	repo.insertOnSaveFailure = existing

	record, err := svc.CreateFromAcceptance(context.Background(), CreateFromAcceptanceCommand{ApplicationID: "APP-1"})
	require.NoError(t, err)
	assert.Equal(t, "EMP-0", record.ID)
}
