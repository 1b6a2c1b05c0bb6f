package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
	"github.com/Muhammad-Huzaifa24/backend-PMS/repositories"
)

type TaskService struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	notifier *NotificationService
}

func NewTaskService(tasks repositories.TaskRepository, projects repositories.ProjectRepository, users repositories.UserRepository, notifier *NotificationService) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		users:    users,
		notifier: notifier,
	}
}

type TaskCreate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   string `json:"projectId"`
	AssignedTo  string `json:"assignedTo"`
}

// TaskUpdate fields are merged only when non-empty; which fields a caller
// may touch depends on their role.
type TaskUpdate struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	AssignedTo  string            `json:"assignedTo"`
}

// Create adds a task to an existing project. Manager only. If an assignee
// is given, a notification is dispatched to them.
func (s *TaskService) Create(ctx context.Context, creator *models.User, in TaskCreate) (*models.Task, error) {
	if creator.Role != models.RoleManager {
		return nil, models.NewError(models.ErrCodeUnauthorized, "unauthorized role")
	}
	if in.Title == "" || in.Description == "" || in.ProjectID == "" {
		return nil, models.NewError(models.ErrCodeInvalid, "incomplete data")
	}

	projectID, err := primitive.ObjectIDFromHex(in.ProjectID)
	if err != nil {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid project id")
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	var assignedTo primitive.ObjectID
	if in.AssignedTo != "" {
		assignedTo, err = primitive.ObjectIDFromHex(in.AssignedTo)
		if err != nil {
			return nil, models.NewError(models.ErrCodeInvalid, "invalid assignedTo id")
		}
	}

	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.TaskStatusPending,
		AssignedTo:  assignedTo,
		Project:     projectID,
		CreatedBy:   creator.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	if err := s.projects.PushTask(ctx, projectID, task.ID); err != nil {
		return nil, err
	}

	if task.Assigned() {
		s.dispatch(ctx, task.AssignedTo,
			"New Task Assigned",
			fmt.Sprintf("You have been assigned a new task: %s", task.Title),
			"taskAssigned",
			fmt.Sprintf("New task assigned: %s", task.Title),
			task.ID)
	}

	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid task id")
	}
	return s.tasks.GetByID(ctx, taskID)
}

// ListFor returns tasks scoped by role: a Manager sees tasks they created,
// a Developer tasks assigned to them, QA their own tasks plus completed
// tasks that have an assignee.
func (s *TaskService) ListFor(ctx context.Context, user *models.User) ([]models.Task, error) {
	var (
		tasks []models.Task
		err   error
	)

	switch user.Role {
	case models.RoleManager:
		tasks, err = s.tasks.ListByCreator(ctx, user.ID)
	case models.RoleDeveloper:
		tasks, err = s.tasks.ListByAssignee(ctx, user.ID)
	case models.RoleQA:
		tasks, err = s.tasks.ListForQA(ctx, user.ID)
	default:
		return nil, models.NewError(models.ErrCodeUnauthorized, "unauthorized role")
	}
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, models.NewError(models.ErrCodeNotFound, fmt.Sprintf("no task found for %s", user.Name))
	}
	return tasks, nil
}

// Update applies the role-gated field matrix. A Manager may change title,
// description, status and the assignee; a Developer or QA user may change
// only the status, and only on a task assigned to them. Notifications fire
// after the task is saved and never roll it back.
func (s *TaskService) Update(ctx context.Context, user *models.User, id string, in TaskUpdate) (*models.Task, error) {
	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid task id")
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	var (
		notifyUser         bool
		updatedFields      []string
		previousAssignedTo = task.AssignedTo
		reassigned         bool
	)

	switch user.Role {
	case models.RoleDeveloper, models.RoleQA:
		if in.Title != "" || in.Description != "" || in.AssignedTo != "" {
			return nil, models.NewError(models.ErrCodeUnauthorized, "you do not have permission to update this task")
		}
		if !task.Assigned() || task.AssignedTo != user.ID {
			return nil, models.NewError(models.ErrCodeUnauthorized, "task is not assigned to you")
		}
		if in.Status != "" && task.Status != in.Status {
			task.Status = in.Status
			updatedFields = append(updatedFields, "status")
			notifyUser = true
		}
	case models.RoleManager:
		if in.Title != "" && task.Title != in.Title {
			task.Title = in.Title
			updatedFields = append(updatedFields, "title")
		}
		if in.Description != "" && task.Description != in.Description {
			task.Description = in.Description
			updatedFields = append(updatedFields, "description")
		}
		if in.Status != "" && task.Status != in.Status {
			task.Status = in.Status
			updatedFields = append(updatedFields, "status")
		}
		if in.AssignedTo != "" && task.AssignedTo.Hex() != in.AssignedTo {
			assigneeID, err := primitive.ObjectIDFromHex(in.AssignedTo)
			if err != nil {
				return nil, models.NewError(models.ErrCodeInvalid, "invalid assignedTo id")
			}
			assignee, err := s.users.GetByID(ctx, assigneeID)
			if err != nil {
				if models.IsCode(err, models.ErrCodeNotFound) {
					return nil, models.NewError(models.ErrCodeInvalid, "assigned user not found")
				}
				return nil, err
			}
			task.AssignedTo = assigneeID
			updatedFields = append(updatedFields, fmt.Sprintf("assigned user to %s", assignee.Name))
			notifyUser = true
			reassigned = !previousAssignedTo.IsZero() && previousAssignedTo != assigneeID
		}
	default:
		return nil, models.NewError(models.ErrCodeUnauthorized, "you do not have permission to update this task")
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	// Post-commit side effects, best-effort.
	if reassigned {
		s.dispatch(ctx, previousAssignedTo,
			"Task Reassigned",
			fmt.Sprintf("The task %q is now assigned to a new user.", task.Title),
			"taskReassigned",
			fmt.Sprintf("The task %q has been reassigned to a new user.", task.Title),
			task.ID)
	}
	if notifyUser && task.Assigned() {
		s.dispatch(ctx, task.AssignedTo,
			"Task Updated",
			fmt.Sprintf("The task %q has been updated: %s", task.Title, strings.Join(updatedFields, ", ")),
			"taskUpdated",
			fmt.Sprintf("The task %q has been updated.", task.Title),
			task.ID)
	}

	return task, nil
}

// Delete removes the task, pulls its reference from every project listing
// it, and notifies the assignee if there was one.
func (s *TaskService) Delete(ctx context.Context, id string) (string, error) {
	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", models.NewError(models.ErrCodeInvalid, "invalid task id")
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return "", err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return "", err
	}
	if err := s.projects.PullTaskFromAll(ctx, taskID); err != nil {
		return "", err
	}

	if task.Assigned() {
		message := fmt.Sprintf("The task %q assigned to you has been deleted.", task.Title)
		s.dispatch(ctx, task.AssignedTo, "Task Deleted", message, "taskDeleted", message, taskID)
	}

	return taskID.Hex(), nil
}

// dispatch records and pushes a notification. Failures are logged and
// swallowed: the triggering mutation has already committed.
func (s *TaskService) dispatch(ctx context.Context, userID primitive.ObjectID, title, description, event, message string, taskID primitive.ObjectID) {
	if _, err := s.notifier.Dispatch(ctx, userID, title, description, event, message, taskID); err != nil {
		logging.Logger.Warnf("Failed to dispatch %s notification for task %s: %v", event, taskID.Hex(), err)
	}
}
