package services

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
	"github.com/Muhammad-Huzaifa24/backend-PMS/realtime"
)

// memDB is the shared in-memory document store backing the fake
// repositories. The fake transactioner snapshots and restores it to mimic
// commit/rollback semantics.
type memDB struct {
	mu            sync.Mutex
	users         map[primitive.ObjectID]models.User
	projects      map[primitive.ObjectID]models.Project
	tasks         map[primitive.ObjectID]models.Task
	notifications []models.Notification

	failTaskDeleteByIDs    bool
	failNotificationCreate bool
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[primitive.ObjectID]models.User),
		projects: make(map[primitive.ObjectID]models.Project),
		tasks:    make(map[primitive.ObjectID]models.Task),
	}
}

type memSnapshot struct {
	users         map[primitive.ObjectID]models.User
	projects      map[primitive.ObjectID]models.Project
	tasks         map[primitive.ObjectID]models.Task
	notifications []models.Notification
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := memSnapshot{
		users:         make(map[primitive.ObjectID]models.User, len(db.users)),
		projects:      make(map[primitive.ObjectID]models.Project, len(db.projects)),
		tasks:         make(map[primitive.ObjectID]models.Task, len(db.tasks)),
		notifications: append([]models.Notification(nil), db.notifications...),
	}
	for id, u := range db.users {
		s.users[id] = u
	}
	for id, p := range db.projects {
		s.projects[id] = p
	}
	for id, t := range db.tasks {
		s.tasks[id] = t
	}
	return s
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = s.users
	db.projects = s.projects
	db.tasks = s.tasks
	db.notifications = s.notifications
}

type memUserRepo struct{ db *memDB }

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Email == user.Email {
			return models.ErrUserAlreadyExists
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.db.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user, ok := r.db.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, user := range r.db.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *memUserRepo) ListNonManagers(_ context.Context) ([]models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var users []models.User
	for _, user := range r.db.users {
		if user.Role != models.RoleManager {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *memUserRepo) SetRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user, ok := r.db.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.RefreshToken = token
	r.db.users[id] = user
	return nil
}

type memProjectRepo struct{ db *memDB }

func (r *memProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if project.Tasks == nil {
		project.Tasks = []primitive.ObjectID{}
	}
	if project.AssignedTo == nil {
		project.AssignedTo = []primitive.ObjectID{}
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.db.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	project, ok := r.db.projects[id]
	if !ok {
		return nil, models.ErrProjectNotFound
	}
	return &project, nil
}

func (r *memProjectRepo) ListByCreator(_ context.Context, creatorID primitive.ObjectID) ([]models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var projects []models.Project
	for _, project := range r.db.projects {
		if project.CreatedBy == creatorID {
			projects = append(projects, project)
		}
	}
	sortProjects(projects)
	return projects, nil
}

func (r *memProjectRepo) ListAll(_ context.Context) ([]models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var projects []models.Project
	for _, project := range r.db.projects {
		projects = append(projects, project)
	}
	sortProjects(projects)
	return projects, nil
}

func (r *memProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[project.ID]; !ok {
		return models.ErrProjectNotFound
	}
	project.UpdatedAt = time.Now()
	r.db.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[id]; !ok {
		return models.ErrProjectNotFound
	}
	delete(r.db.projects, id)
	return nil
}

func (r *memProjectRepo) PushTask(_ context.Context, projectID, taskID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	project, ok := r.db.projects[projectID]
	if !ok {
		return models.ErrProjectNotFound
	}
	project.Tasks = append(project.Tasks, taskID)
	r.db.projects[projectID] = project
	return nil
}

func (r *memProjectRepo) PullTaskFromAll(_ context.Context, taskID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, project := range r.db.projects {
		var kept []primitive.ObjectID
		for _, t := range project.Tasks {
			if t != taskID {
				kept = append(kept, t)
			}
		}
		project.Tasks = kept
		r.db.projects[id] = project
	}
	return nil
}

type memTaskRepo struct{ db *memDB }

func (r *memTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.db.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	task, ok := r.db.tasks[id]
	if !ok {
		return nil, models.ErrTaskNotFound
	}
	return &task, nil
}

func (r *memTaskRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var tasks []models.Task
	for _, id := range ids {
		if task, ok := r.db.tasks[id]; ok {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *memTaskRepo) ListByCreator(_ context.Context, creatorID primitive.ObjectID) ([]models.Task, error) {
	return r.filter(func(t models.Task) bool { return t.CreatedBy == creatorID })
}

func (r *memTaskRepo) ListByAssignee(_ context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	return r.filter(func(t models.Task) bool { return t.AssignedTo == userID })
}

func (r *memTaskRepo) ListForQA(_ context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	return r.filter(func(t models.Task) bool {
		return t.AssignedTo == userID || (t.Status == models.TaskStatusCompleted && !t.AssignedTo.IsZero())
	})
}

func (r *memTaskRepo) Update(_ context.Context, task *models.Task) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tasks[task.ID]; !ok {
		return models.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	r.db.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tasks[id]; !ok {
		return models.ErrTaskNotFound
	}
	delete(r.db.tasks, id)
	return nil
}

func (r *memTaskRepo) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failTaskDeleteByIDs {
		return models.NewError(models.ErrCodeStorage, "failed to delete tasks")
	}
	for _, id := range ids {
		delete(r.db.tasks, id)
	}
	return nil
}

func (r *memTaskRepo) filter(keep func(models.Task) bool) ([]models.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var tasks []models.Task
	for _, task := range r.db.tasks {
		if keep(task) {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

type memNotificationRepo struct{ db *memDB }

func (r *memNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failNotificationCreate {
		return models.NewError(models.ErrCodeStorage, "failed to create notification")
	}
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	notification.CreatedAt = time.Now()
	r.db.notifications = append(r.db.notifications, *notification)
	return nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var notifications []models.Notification
	for i := len(r.db.notifications) - 1; i >= 0; i-- {
		if r.db.notifications[i].UserID == userID {
			notifications = append(notifications, r.db.notifications[i])
		}
	}
	return notifications, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.notifications {
		if r.db.notifications[i].ID == id {
			r.db.notifications[i].IsRead = true
			return nil
		}
	}
	return models.ErrNotificationNotFound
}

// memTransactioner snapshots the store before fn and restores it when fn
// fails, giving the cascade delete real rollback behavior in tests.
type memTransactioner struct{ db *memDB }

func (t *memTransactioner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := t.db.snapshot()
	if err := fn(ctx); err != nil {
		t.db.restore(snapshot)
		return err
	}
	return nil
}

func sortProjects(projects []models.Project) {
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
}

// testEnv bundles the services under test on top of the in-memory store and
// a real presence registry.
type testEnv struct {
	db       *memDB
	registry *realtime.Registry

	tokens        *TokenService
	users         *UserService
	projects      *ProjectService
	tasks         *TaskService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newMemDB()
	userRepo := &memUserRepo{db: db}
	projectRepo := &memProjectRepo{db: db}
	taskRepo := &memTaskRepo{db: db}
	notificationRepo := &memNotificationRepo{db: db}

	registry := realtime.NewRegistry()
	tokens := NewTokenService(userRepo, "test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
	notifications := NewNotificationService(notificationRepo, registry)

	return &testEnv{
		db:            db,
		registry:      registry,
		tokens:        tokens,
		users:         NewUserService(userRepo, tokens),
		projects:      NewProjectService(projectRepo, taskRepo, &memTransactioner{db: db}),
		tasks:         NewTaskService(taskRepo, projectRepo, userRepo, notifications),
		notifications: notifications,
	}
}

const testPassword = "Password123!"

func createTestUser(t *testing.T, env *testEnv, name, email string, role models.Role) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Name: name, Email: email, Role: role, Password: string(hashed)}
	repo := &memUserRepo{db: env.db}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

// notificationsFor pulls the stored notifications for a user straight out
// of the fake store.
func notificationsFor(env *testEnv, userID primitive.ObjectID) []models.Notification {
	env.db.mu.Lock()
	defer env.db.mu.Unlock()
	var out []models.Notification
	for _, n := range env.db.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// readFrame pops one queued SSE frame off the connection and decodes it.
func readFrame(t *testing.T, conn *realtime.Connection) (event string, payload map[string]string) {
	t.Helper()

	select {
	case frame := <-conn.Frames():
		lines := bytes.SplitN(frame, []byte("\n"), 3)
		require.True(t, bytes.HasPrefix(lines[0], []byte("event: ")), "frame missing event line: %q", frame)
		require.True(t, bytes.HasPrefix(lines[1], []byte("data: ")), "frame missing data line: %q", frame)
		event = string(bytes.TrimPrefix(lines[0], []byte("event: ")))
		require.NoError(t, json.Unmarshal(bytes.TrimPrefix(lines[1], []byte("data: ")), &payload))
		return event, payload
	default:
		t.Fatal("no frame queued on connection")
		return "", nil
	}
}
