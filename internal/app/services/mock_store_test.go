package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/escolar/internal/app/auth"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/app/repositories"
	"github.com/yigit/escolar/internal/pkg/apperrors"
	"github.com/yigit/escolar/internal/pkg/auditgap"
)

// memState is the content of the fake database
type memState struct {
	students    map[int64]models.Student
	enrollments map[int64][]int64 // student -> courses, in insertion order
	courses     map[int64]models.Course
	history     []models.HistoryRecord
	nextStudent int64
	nextHistory int64
}

func (s *memState) clone() *memState {
	c := &memState{
		students:    make(map[int64]models.Student, len(s.students)),
		enrollments: make(map[int64][]int64, len(s.enrollments)),
		courses:     make(map[int64]models.Course, len(s.courses)),
		history:     append([]models.HistoryRecord(nil), s.history...),
		nextStudent: s.nextStudent,
		nextHistory: s.nextHistory,
	}
	for k, v := range s.students {
		c.students[k] = v
	}
	for k, v := range s.enrollments {
		c.enrollments[k] = append([]int64(nil), v...)
	}
	for k, v := range s.courses {
		c.courses[k] = v
	}
	return c
}

// memStore is an in-memory Store. WithinTx works on a copy of the state that
// replaces the committed state only when fn succeeds.
type memStore struct {
	mu    *sync.Mutex
	state *memState
	inTx  bool
	root  *memStore

	// failure injection
	failAppend           error
	failCreateStudent    error
	failCreateEnrollment error
	failDeleteStudent    error

	// ops records every mutating call in order
	ops []string
}

func newMemStore() *memStore {
	m := &memStore{
		mu: &sync.Mutex{},
		state: &memState{
			students:    map[int64]models.Student{},
			enrollments: map[int64][]int64{},
			courses:     map[int64]models.Course{},
		},
	}
	m.root = m
	return m
}

func (m *memStore) record(op string) {
	m.root.ops = append(m.root.ops, op)
}

func (m *memStore) addCourse(id int64, name string) {
	m.state.courses[id] = models.Course{ID: id, Name: name, Level: "Secundario", Year: 2025}
}

func (m *memStore) Students() repositories.StudentStore       { return memStudents{m} }
func (m *memStore) Enrollments() repositories.EnrollmentStore { return memEnrollments{m} }
func (m *memStore) History() repositories.HistoryStore        { return memHistory{m} }
func (m *memStore) Courses() repositories.CourseStore         { return memCourses{m} }

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	if m.inTx {
		return fn(ctx, m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memStore{mu: m.mu, state: m.state.clone(), inTx: true, root: m.root,
		failAppend: m.failAppend, failCreateStudent: m.failCreateStudent,
		failCreateEnrollment: m.failCreateEnrollment, failDeleteStudent: m.failDeleteStudent}
	if err := fn(ctx, tx); err != nil {
		m.record("rollback")
		return err
	}
	m.state = tx.state
	m.record("commit")
	return nil
}

type memStudents struct{ m *memStore }

func (s memStudents) CreateStudent(_ context.Context, student *models.Student) error {
	if s.m.failCreateStudent != nil {
		return s.m.failCreateStudent
	}
	for _, existing := range s.m.state.students {
		if existing.Email == student.Email {
			return apperrors.NewValidationError(`duplicate key value violates unique constraint "alumno_email_key"`)
		}
	}
	s.m.state.nextStudent++
	student.ID = s.m.state.nextStudent
	student.CreatedAt = time.Now()
	s.m.state.students[student.ID] = *student
	s.m.record("create_student")
	return nil
}

func (s memStudents) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	st, ok := s.m.state.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &st, nil
}

func (s memStudents) GetStudentForUpdate(ctx context.Context, id int64) (*models.Student, error) {
	return s.GetStudentByID(ctx, id)
}

func (s memStudents) UpdateStudent(_ context.Context, id int64, update models.StudentUpdate) (*models.Student, error) {
	st, ok := s.m.state.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cols := update.Columns()
	if v, ok := cols["nombre"]; ok {
		st.Name = v.(string)
	}
	if v, ok := cols["email"]; ok {
		st.Email = v.(string)
	}
	if update.Gender.Set {
		st.Gender = update.Gender.Ptr()
	}
	if update.Address.Set {
		st.Address = update.Address.Ptr()
	}
	if update.Phone.Set {
		st.Phone = update.Phone.Ptr()
	}
	s.m.state.students[id] = st
	s.m.record("update_student")
	return &st, nil
}

func (s memStudents) DeleteStudent(_ context.Context, id int64) error {
	if s.m.failDeleteStudent != nil {
		return s.m.failDeleteStudent
	}
	if _, ok := s.m.state.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if len(s.m.state.enrollments[id]) > 0 {
		return errors.New(`update or delete on table "alumno" violates foreign key constraint`)
	}
	delete(s.m.state.students, id)
	s.m.record("delete_student")
	return nil
}

func (s memStudents) withCourse(st models.Student) *models.StudentWithCourse {
	out := &models.StudentWithCourse{Student: st}
	if courses := s.m.state.enrollments[st.ID]; len(courses) > 0 {
		c := s.m.state.courses[courses[len(courses)-1]]
		out.Course = &c
	}
	return out
}

func (s memStudents) ListStudentsWithCourse(_ context.Context) ([]*models.StudentWithCourse, error) {
	out := make([]*models.StudentWithCourse, 0, len(s.m.state.students))
	for _, st := range s.m.state.students {
		out = append(out, s.withCourse(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memStudents) GetStudentWithCourse(_ context.Context, id int64) (*models.StudentWithCourse, error) {
	st, ok := s.m.state.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.withCourse(st), nil
}

type memEnrollments struct{ m *memStore }

func (e memEnrollments) GetCurrentCourseID(_ context.Context, studentID int64) (*int64, error) {
	courses := e.m.state.enrollments[studentID]
	if len(courses) == 0 {
		return nil, nil
	}
	id := courses[len(courses)-1]
	return &id, nil
}

func (e memEnrollments) CreateEnrollment(_ context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	if e.m.failCreateEnrollment != nil {
		return nil, e.m.failCreateEnrollment
	}
	if _, ok := e.m.state.courses[courseID]; !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	if _, ok := e.m.state.students[studentID]; !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	for _, c := range e.m.state.enrollments[studentID] {
		if c == courseID {
			return nil, apperrors.ErrAlreadyEnrolled
		}
	}
	e.m.state.enrollments[studentID] = append(e.m.state.enrollments[studentID], courseID)
	e.m.record("create_enrollment")
	return &models.Enrollment{StudentID: studentID, CourseID: courseID, CreatedAt: time.Now()}, nil
}

func (e memEnrollments) DeleteByStudent(_ context.Context, studentID int64) (int64, error) {
	n := int64(len(e.m.state.enrollments[studentID]))
	delete(e.m.state.enrollments, studentID)
	e.m.record("delete_enrollments")
	return n, nil
}

func (e memEnrollments) DeleteEnrollment(_ context.Context, studentID, courseID int64) (int64, error) {
	courses := e.m.state.enrollments[studentID]
	kept := courses[:0:0]
	for _, c := range courses {
		if c != courseID {
			kept = append(kept, c)
		}
	}
	deleted := int64(len(courses) - len(kept))
	if len(kept) == 0 {
		delete(e.m.state.enrollments, studentID)
	} else {
		e.m.state.enrollments[studentID] = kept
	}
	e.m.record("delete_enrollment")
	return deleted, nil
}

func (e memEnrollments) ListStudentsByCourse(_ context.Context, courseID int64) ([]*models.Student, error) {
	out := make([]*models.Student, 0)
	for sid, courses := range e.m.state.enrollments {
		for _, c := range courses {
			if c == courseID {
				st := e.m.state.students[sid]
				out = append(out, &st)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memHistory struct{ m *memStore }

func (h memHistory) AppendHistory(_ context.Context, record *models.HistoryRecord) error {
	if h.m.failAppend != nil {
		h.m.record("append_failed")
		return h.m.failAppend
	}
	h.m.state.nextHistory++
	record.ID = h.m.state.nextHistory
	record.CreatedAt = time.Now()
	h.m.state.history = append(h.m.state.history, *record)
	h.m.record("append_" + string(record.ChangeType))
	return nil
}

func (h memHistory) ListHistory(_ context.Context, filter models.HistoryFilter) ([]*models.HistoryRecord, error) {
	out := make([]*models.HistoryRecord, 0)
	for i := len(h.m.state.history) - 1; i >= 0; i-- {
		r := h.m.state.history[i]
		if filter.StudentID != nil && r.StudentID != *filter.StudentID {
			continue
		}
		if filter.ChangeType != nil && r.ChangeType != *filter.ChangeType {
			continue
		}
		out = append(out, &r)
	}
	return out, nil
}

type memCourses struct{ m *memStore }

func (c memCourses) ListCourses(_ context.Context) ([]*models.Course, error) {
	out := make([]*models.Course, 0, len(c.m.state.courses))
	for _, course := range c.m.state.courses {
		course := course
		out = append(out, &course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c memCourses) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := c.m.state.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &course, nil
}

func (c memCourses) CreateCourse(_ context.Context, course *models.Course) error {
	course.ID = int64(len(c.m.state.courses) + 100)
	c.m.state.courses[course.ID] = *course
	return nil
}

func (c memCourses) UpdatePreceptor(_ context.Context, courseID int64, preceptorID *string) error {
	course, ok := c.m.state.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.PreceptorID = preceptorID
	c.m.state.courses[courseID] = course
	return nil
}

// memRoles is an in-memory RoleStore
type memRoles map[string]models.Role

func (r memRoles) GetRole(_ context.Context, userID string) (models.Role, error) {
	if role, ok := r[userID]; ok {
		return role, nil
	}
	return models.RolePending, nil
}

func (r memRoles) UpsertRole(_ context.Context, userID string, role models.Role) error {
	r[userID] = role
	return nil
}

func (r memRoles) RequestAdmin(context.Context, string) error {
	return nil
}

// recordingReporter captures reported audit gaps
type recordingReporter struct {
	gaps []auditgap.Gap
}

func (r *recordingReporter) Report(_ context.Context, gap auditgap.Gap) {
	r.gaps = append(r.gaps, gap)
}

func (r *recordingReporter) Pending(_ context.Context, _ int64) ([]auditgap.Gap, error) {
	return r.gaps, nil
}

func adminActor() auth.Actor {
	return auth.Actor{UserID: uuid.New(), Role: models.RoleAdmin}
}

func preceptorActor() auth.Actor {
	return auth.Actor{UserID: uuid.New(), Role: models.RolePreceptor}
}
