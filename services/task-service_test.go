package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
	"github.com/Muhammad-Huzaifa24/backend-PMS/realtime"
)

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("only a manager can create tasks", func(t *testing.T) {
		env := newTestEnv(t)
		dev := createTestUser(t, env, "Dev", "dev@example.com", models.RoleDeveloper)

		_, err := env.tasks.Create(ctx, dev, TaskCreate{Title: "t", Description: "d", ProjectID: "x"})
		assert.True(t, models.IsCode(err, models.ErrCodeUnauthorized))
	})

	t.Run("incomplete data is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)

		_, err := env.tasks.Create(ctx, manager, TaskCreate{Title: "t"})
		assert.True(t, models.IsCode(err, models.ErrCodeInvalid))
	})

	t.Run("task must belong to an existing project", func(t *testing.T) {
		env := newTestEnv(t)
		manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)

		_, err := env.tasks.Create(ctx, manager, TaskCreate{
			Title: "t", Description: "d", ProjectID: "000000000000000000000000",
		})
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
	})

	t.Run("created task is appended to the project task set", func(t *testing.T) {
		env := newTestEnv(t)
		manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)

		project, err := env.projects.Create(ctx, manager, ProjectCreate{Title: "Sprint 1", Description: "x"})
		require.NoError(t, err)

		task, err := env.tasks.Create(ctx, manager, TaskCreate{
			Title: "T", Description: "d", ProjectID: project.ID.Hex(),
		})
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusPending, task.Status)

		stored, err := env.projects.Get(ctx, project.ID.Hex())
		require.NoError(t, err)
		assert.Contains(t, stored.Tasks, task.ID)
	})

	t.Run("assignee gets a durable notification", func(t *testing.T) {
		env := newTestEnv(t)
		manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)
		dev := createTestUser(t, env, "Dev", "dev@example.com", models.RoleDeveloper)

		project, err := env.projects.Create(ctx, manager, ProjectCreate{Title: "Sprint 1", Description: "x"})
		require.NoError(t, err)

		task, err := env.tasks.Create(ctx, manager, TaskCreate{
			Title: "T", Description: "d", ProjectID: project.ID.Hex(), AssignedTo: dev.ID.Hex(),
		})
		require.NoError(t, err)

		stored, err := env.projects.Get(ctx, project.ID.Hex())
		require.NoError(t, err)
		assert.Contains(t, stored.Tasks, task.ID)

		notifications := notificationsFor(env, dev.ID)
		require.Len(t, notifications, 1)
		assert.Equal(t, "New Task Assigned", notifications[0].Title)
		assert.False(t, notifications[0].IsRead)
	})

	t.Run("connected assignee receives a taskAssigned event", func(t *testing.T) {
		env := newTestEnv(t)
		manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)
		dev := createTestUser(t, env, "Dev", "dev@example.com", models.RoleDeveloper)

		conn := realtime.NewConnection()
		env.registry.Register(dev.ID.Hex(), conn)

		project, err := env.projects.Create(ctx, manager, ProjectCreate{Title: "Sprint 1", Description: "x"})
		require.NoError(t, err)

		task, err := env.tasks.Create(ctx, manager, TaskCreate{
			Title: "T", Description: "d", ProjectID: project.ID.Hex(), AssignedTo: dev.ID.Hex(),
		})
		require.NoError(t, err)

		event, payload := readFrame(t, conn)
		assert.Equal(t, "taskAssigned", event)
		assert.Equal(t, task.ID.Hex(), payload["taskId"])
		assert.Equal(t, "New task assigned: T", payload["message"])
	})

	t.Run("notification failure does not undo the task", func(t *testing.T) {
		env := newTestEnv(t)
		manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)
		dev := createTestUser(t, env, "Dev", "dev@example.com", models.RoleDeveloper)

		project, err := env.projects.Create(ctx, manager, ProjectCreate{Title: "Sprint 1", Description: "x"})
		require.NoError(t, err)

		env.db.failNotificationCreate = true
		task, err := env.tasks.Create(ctx, manager, TaskCreate{
			Title: "T", Description: "d", ProjectID: project.ID.Hex(), AssignedTo: dev.ID.Hex(),
		})
		require.NoError(t, err)

		_, err = env.tasks.Get(ctx, task.ID.Hex())
		assert.NoError(t, err)
		assert.Empty(t, notificationsFor(env, dev.ID))
	})
}

func TestTaskService_Update_RoleGating(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testEnv, *models.User, *models.User, *models.Task) {
		env := newTestEnv(t)
		manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)
		dev := createTestUser(t, env, "Dev", "dev@example.com", models.RoleDeveloper)

		project, err := env.projects.Create(ctx, manager, ProjectCreate{Title: "P", Description: "d"})
		require.NoError(t, err)
		task, err := env.tasks.Create(ctx, manager, TaskCreate{
			Title: "T", Description: "d", ProjectID: project.ID.Hex(), AssignedTo: dev.ID.Hex(),
		})
		require.NoError(t, err)
		return env, manager, dev, task
	}

	t.Run("developer cannot change title even on own task", func(t *testing.T) {
		env, _, dev, task := setup(t)

		_, err := env.tasks.Update(ctx, dev, task.ID.Hex(), TaskUpdate{Title: "new title"})
		assert.True(t, models.IsCode(err, models.ErrCodeUnauthorized))
	})

	t.Run("qa cannot change description", func(t *testing.T) {
		env, _, _, task := setup(t)
		qa := createTestUser(t, env, "QA", "qa@example.com", models.RoleQA)

		_, err := env.tasks.Update(ctx, qa, task.ID.Hex(), TaskUpdate{Description: "new"})
		assert.True(t, models.IsCode(err, models.ErrCodeUnauthorized))
	})

	t.Run("developer cannot change status of someone else's task", func(t *testing.T) {
		env, _, _, task := setup(t)
		other := createTestUser(t, env, "Other", "other@example.com", models.RoleDeveloper)

		_, err := env.tasks.Update(ctx, other, task.ID.Hex(), TaskUpdate{Status: models.TaskStatusInProgress})
		assert.True(t, models.IsCode(err, models.ErrCodeUnauthorized))
	})

	t.Run("developer may change status of own task", func(t *testing.T) {
		env, _, dev, task := setup(t)

		updated, err := env.tasks.Update(ctx, dev, task.ID.Hex(), TaskUpdate{Status: models.TaskStatusInProgress})
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusInProgress, updated.Status)

		notifications := notificationsFor(env, dev.ID)
		require.Len(t, notifications, 2) // assignment + update
		assert.Equal(t, "Task Updated", notifications[1].Title)
	})

	t.Run("manager may change every field", func(t *testing.T) {
		env, manager, _, task := setup(t)

		updated, err := env.tasks.Update(ctx, manager, task.ID.Hex(), TaskUpdate{
			Title:       "renamed",
			Description: "rewritten",
			Status:      models.TaskStatusQA,
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Title)
		assert.Equal(t, "rewritten", updated.Description)
		assert.Equal(t, models.TaskStatusQA, updated.Status)
	})

	t.Run("manager cannot assign a nonexistent user", func(t *testing.T) {
		env, manager, _, task := setup(t)

		_, err := env.tasks.Update(ctx, manager, task.ID.Hex(), TaskUpdate{AssignedTo: "000000000000000000000000"})
		assert.True(t, models.IsCode(err, models.ErrCodeInvalid))
	})

	t.Run("unknown task is not found", func(t *testing.T) {
		env, manager, _, _ := setup(t)

		_, err := env.tasks.Update(ctx, manager, "000000000000000000000000", TaskUpdate{Status: models.TaskStatusQA})
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
	})
}

func TestTaskService_Update_Reassignment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)
	userA := createTestUser(t, env, "A", "a@example.com", models.RoleDeveloper)
	userB := createTestUser(t, env, "B", "b@example.com", models.RoleDeveloper)

	project, err := env.projects.Create(ctx, manager, ProjectCreate{Title: "P", Description: "d"})
	require.NoError(t, err)
	task, err := env.tasks.Create(ctx, manager, TaskCreate{
		Title: "T", Description: "d", ProjectID: project.ID.Hex(), AssignedTo: userA.ID.Hex(),
	})
	require.NoError(t, err)

	connA := realtime.NewConnection()
	env.registry.Register(userA.ID.Hex(), connA)

	updated, err := env.tasks.Update(ctx, manager, task.ID.Hex(), TaskUpdate{AssignedTo: userB.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, userB.ID, updated.AssignedTo)

	// exactly one reassignment notice for the previous assignee
	var reassigned []models.Notification
	for _, n := range notificationsFor(env, userA.ID) {
		if n.Title == "Task Reassigned" {
			reassigned = append(reassigned, n)
		}
	}
	require.Len(t, reassigned, 1)

	// and one update notice for the new assignee
	notificationsB := notificationsFor(env, userB.ID)
	require.Len(t, notificationsB, 1)
	assert.Equal(t, "Task Updated", notificationsB[0].Title)

	event, payload := readFrame(t, connA)
	assert.Equal(t, "taskReassigned", event)
	assert.Equal(t, task.ID.Hex(), payload["taskId"])
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the task from every project listing it", func(t *testing.T) {
		env := newTestEnv(t)
		manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)
		dev := createTestUser(t, env, "Dev", "dev@example.com", models.RoleDeveloper)

		project, err := env.projects.Create(ctx, manager, ProjectCreate{Title: "P", Description: "d"})
		require.NoError(t, err)
		task, err := env.tasks.Create(ctx, manager, TaskCreate{
			Title: "T", Description: "d", ProjectID: project.ID.Hex(), AssignedTo: dev.ID.Hex(),
		})
		require.NoError(t, err)

		deletedID, err := env.tasks.Delete(ctx, task.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, task.ID.Hex(), deletedID)

		_, err = env.tasks.Get(ctx, task.ID.Hex())
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))

		stored, err := env.projects.Get(ctx, project.ID.Hex())
		require.NoError(t, err)
		assert.NotContains(t, stored.Tasks, task.ID)

		notifications := notificationsFor(env, dev.ID)
		require.Len(t, notifications, 2)
		assert.Equal(t, "Task Deleted", notifications[1].Title)
	})

	t.Run("unassigned task produces no notification", func(t *testing.T) {
		env := newTestEnv(t)
		manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)

		project, err := env.projects.Create(ctx, manager, ProjectCreate{Title: "P", Description: "d"})
		require.NoError(t, err)
		task, err := env.tasks.Create(ctx, manager, TaskCreate{
			Title: "T", Description: "d", ProjectID: project.ID.Hex(),
		})
		require.NoError(t, err)

		_, err = env.tasks.Delete(ctx, task.ID.Hex())
		require.NoError(t, err)
		assert.Empty(t, env.db.notifications)
	})
}

func TestTaskService_ListFor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	manager := createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)
	dev := createTestUser(t, env, "Dev", "dev@example.com", models.RoleDeveloper)
	qa := createTestUser(t, env, "QA", "qa@example.com", models.RoleQA)

	project, err := env.projects.Create(ctx, manager, ProjectCreate{Title: "P", Description: "d"})
	require.NoError(t, err)

	devTask, err := env.tasks.Create(ctx, manager, TaskCreate{
		Title: "dev work", Description: "d", ProjectID: project.ID.Hex(), AssignedTo: dev.ID.Hex(),
	})
	require.NoError(t, err)
	_, err = env.tasks.Update(ctx, manager, devTask.ID.Hex(), TaskUpdate{Status: models.TaskStatusCompleted})
	require.NoError(t, err)

	_, err = env.tasks.Create(ctx, manager, TaskCreate{
		Title: "unassigned", Description: "d", ProjectID: project.ID.Hex(),
	})
	require.NoError(t, err)

	t.Run("manager sees created tasks", func(t *testing.T) {
		tasks, err := env.tasks.ListFor(ctx, manager)
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("developer sees assigned tasks only", func(t *testing.T) {
		tasks, err := env.tasks.ListFor(ctx, dev)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, devTask.ID, tasks[0].ID)
	})

	t.Run("qa sees completed assigned tasks of others", func(t *testing.T) {
		tasks, err := env.tasks.ListFor(ctx, qa)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, devTask.ID, tasks[0].ID)
	})

	t.Run("empty result is not found", func(t *testing.T) {
		lonely := createTestUser(t, env, "Lonely", "lonely@example.com", models.RoleDeveloper)
		_, err := env.tasks.ListFor(ctx, lonely)
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
	})
}
