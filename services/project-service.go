package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
	"github.com/Muhammad-Huzaifa24/backend-PMS/repositories"
)

type ProjectService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	tx       repositories.Transactioner
}

func NewProjectService(projects repositories.ProjectRepository, tasks repositories.TaskRepository, tx repositories.Transactioner) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, tx: tx}
}

type ProjectCreate struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Tasks       []string             `json:"tasks"`
	AssignedTo  []string             `json:"assignedTo"`
}

type ProjectUpdate struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Tasks       []string             `json:"tasks"`
	AssignedTo  []string             `json:"assignedTo"`
}

// ProjectList is the role-scoped listing plus a per-status project count.
// All three statuses are always present in the count.
type ProjectList struct {
	Projects    []models.Project             `json:"projects"`
	StatusCount map[models.ProjectStatus]int `json:"statusCount"`
}

// Create adds a project owned by the calling Manager.
func (s *ProjectService) Create(ctx context.Context, creator *models.User, in ProjectCreate) (*models.Project, error) {
	if creator.Role != models.RoleManager {
		return nil, models.NewError(models.ErrCodeUnauthorized, "only a Manager can create projects")
	}
	if in.Title == "" || in.Description == "" {
		return nil, models.NewError(models.ErrCodeInvalid, "incomplete data")
	}

	status := in.Status
	if status == "" {
		status = models.ProjectStatusPending
	}
	if !status.Valid() {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid status")
	}

	project := &models.Project{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Tasks:       parseObjectIDs(in.Tasks),
		AssignedTo:  parseObjectIDs(in.AssignedTo),
		CreatedBy:   creator.ID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// List returns projects scoped by role. A Manager sees projects they
// created. Developer and QA see only projects containing at least one task
// assigned to them, with the task list narrowed to just those tasks.
func (s *ProjectService) List(ctx context.Context, user *models.User) (*ProjectList, error) {
	var projects []models.Project

	switch user.Role {
	case models.RoleManager:
		var err error
		projects, err = s.projects.ListByCreator(ctx, user.ID)
		if err != nil {
			return nil, err
		}
	case models.RoleDeveloper, models.RoleQA:
		all, err := s.projects.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		assigned, err := s.tasks.ListByAssignee(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		mine := make(map[primitive.ObjectID]bool, len(assigned))
		for _, task := range assigned {
			mine[task.ID] = true
		}
		for _, project := range all {
			var own []primitive.ObjectID
			for _, taskID := range project.Tasks {
				if mine[taskID] {
					own = append(own, taskID)
				}
			}
			if len(own) > 0 {
				project.Tasks = own
				projects = append(projects, project)
			}
		}
	default:
		return nil, models.NewError(models.ErrCodeUnauthorized, "you do not have permission")
	}

	if len(projects) == 0 {
		return nil, models.NewError(models.ErrCodeNotFound, "no projects found")
	}

	statusCount := map[models.ProjectStatus]int{
		models.ProjectStatusPending:    0,
		models.ProjectStatusInProgress: 0,
		models.ProjectStatusCompleted:  0,
	}
	for _, project := range projects {
		statusCount[project.Status]++
	}

	return &ProjectList{Projects: projects, StatusCount: statusCount}, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	projectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid project id")
	}
	return s.projects.GetByID(ctx, projectID)
}

// GetTasks returns a project's tasks. A Manager sees all of them; everyone
// else only the tasks assigned to them.
func (s *ProjectService) GetTasks(ctx context.Context, user *models.User, id string) ([]models.Task, error) {
	projectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid project id")
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.GetByIDs(ctx, project.Tasks)
	if err != nil {
		return nil, err
	}

	if user.Role == models.RoleManager {
		return tasks, nil
	}

	var own []models.Task
	for _, task := range tasks {
		if task.AssignedTo == user.ID {
			own = append(own, task)
		}
	}
	return own, nil
}

// Update merges the provided fields into the project. Task and assignee
// references are appended with duplicates removed. A request carrying no
// recognized field is rejected.
func (s *ProjectService) Update(ctx context.Context, id string, in ProjectUpdate) (*models.Project, error) {
	projectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid project id")
	}

	taskIDs := parseObjectIDs(in.Tasks)
	assignedIDs := parseObjectIDs(in.AssignedTo)

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if in.Title == "" && in.Description == "" && in.Status == "" && len(taskIDs) == 0 && len(assignedIDs) == 0 {
		return nil, models.NewError(models.ErrCodeInvalid, "no updates provided")
	}

	if in.Title != "" {
		project.Title = in.Title
	}
	if in.Description != "" {
		project.Description = in.Description
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, models.NewError(models.ErrCodeInvalid, "invalid status")
		}
		project.Status = in.Status
	}
	if len(taskIDs) > 0 {
		project.Tasks = mergeUnique(project.Tasks, taskIDs)
	}
	if len(assignedIDs) > 0 {
		project.AssignedTo = mergeUnique(project.AssignedTo, assignedIDs)
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project and every task it references as one atomic
// unit; any failure rolls back both deletions.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	projectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.NewError(models.ErrCodeInvalid, "invalid project id")
	}

	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		project, err := s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return err
		}
		if err := s.tasks.DeleteByIDs(txCtx, project.Tasks); err != nil {
			return err
		}
		return s.projects.Delete(txCtx, projectID)
	})
}

// parseObjectIDs keeps the valid ids and silently drops malformed ones.
func parseObjectIDs(raw []string) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, r := range raw {
		id, err := primitive.ObjectIDFromHex(r)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func mergeUnique(existing, incoming []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(existing)+len(incoming))
	merged := make([]primitive.ObjectID, 0, len(existing)+len(incoming))
	for _, id := range append(existing, incoming...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
	}
	return merged
}
