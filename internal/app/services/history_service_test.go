package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/pkg/apperrors"
	"github.com/yigit/escolar/internal/pkg/auditgap"
)

func TestListHistory_FiltersNewestFirst(t *testing.T) {
	store := newMemStore()
	store.addCourse(5, "3ro A")
	students := NewStudentService(store, nil)
	actor := adminActor()
	ctx := context.Background()

	a, err := students.CreateStudent(ctx, actor, ana(), models.SomeID(5))
	require.NoError(t, err)
	b, err := students.CreateStudent(ctx, actor, &models.Student{Name: "Bruno", Email: "bruno@x.com"}, models.OptionalID{})
	require.NoError(t, err)
	require.NoError(t, students.RemoveStudent(ctx, actor, a.ID, "duplicate account", nil))

	svc := NewHistoryService(store.History(), nil)

	all, err := svc.ListHistory(ctx, actor, models.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.ChangeRemoved, all[0].ChangeType)
	assert.Equal(t, b.ID, all[1].StudentID)

	byStudent, err := svc.ListHistory(ctx, actor, models.HistoryFilter{StudentID: &a.ID})
	require.NoError(t, err)
	require.Len(t, byStudent, 2)
	for _, r := range byStudent {
		assert.Equal(t, a.ID, r.StudentID)
	}

	baja := models.ChangeRemoved
	removed, err := svc.ListHistory(ctx, actor, models.HistoryFilter{ChangeType: &baja})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "duplicate account", *removed[0].Reason)
}

func TestListHistory_Rejections(t *testing.T) {
	svc := NewHistoryService(newMemStore().History(), nil)

	bogus := models.ChangeType("borrado")
	_, err := svc.ListHistory(context.Background(), adminActor(), models.HistoryFilter{ChangeType: &bogus})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.ListHistory(context.Background(), preceptorActor(), models.HistoryFilter{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestListGaps(t *testing.T) {
	disabled := NewHistoryService(newMemStore().History(), nil)
	_, err := disabled.ListGaps(context.Background(), adminActor(), 10)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	reporter := &recordingReporter{gaps: []auditgap.Gap{{StudentID: 3, ChangeType: "alta"}}}
	svc := NewHistoryService(newMemStore().History(), reporter)

	gaps, err := svc.ListGaps(context.Background(), adminActor(), 10)
	require.NoError(t, err)
	assert.Len(t, gaps, 1)

	_, err = svc.ListGaps(context.Background(), preceptorActor(), 10)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
