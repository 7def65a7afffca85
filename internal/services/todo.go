package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kelsos/todos/internal/client"
	"github.com/kelsos/todos/internal/logger"
	"github.com/kelsos/todos/internal/models"
)

// TodoService talks to the remote todo collection of a single owner
type TodoService struct {
	client *client.APIClient
	userID int
}

// NewTodoService creates a todo service scoped to userID
func NewTodoService(apiClient *client.APIClient, userID int) *TodoService {
	return &TodoService{
		client: apiClient,
		userID: userID,
	}
}

// UserID returns the owner every call is scoped to
func (s *TodoService) UserID() int {
	return s.userID
}

// List fetches every todo of the owner in server order
func (s *TodoService) List(ctx context.Context) ([]models.Todo, error) {
	query := url.Values{}
	query.Set("userId", strconv.Itoa(s.userID))

	var todos []models.Todo
	if err := s.client.Get(ctx, "/todos?"+query.Encode(), &todos); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	logger.Debug("Fetched %d todos for user %d", len(todos), s.userID)
	return todos, nil
}

// Create stores a new active todo and returns it with its assigned id
func (s *TodoService) Create(ctx context.Context, title string) (models.Todo, error) {
	body := models.NewTodoRequest{
		UserID:    s.userID,
		Title:     title,
		Completed: false,
	}

	var created models.Todo
	if err := s.client.Post(ctx, "/todos", body, &created); err != nil {
		return models.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}

	logger.Debug("Created todo %d", created.ID)
	return created, nil
}

// Update applies a partial update and returns the full stored record
func (s *TodoService) Update(ctx context.Context, id int, patch models.TodoPatch) (models.Todo, error) {
	var updated models.Todo
	if err := s.client.Patch(ctx, todoEndpoint(id), patch, &updated); err != nil {
		return models.Todo{}, fmt.Errorf("failed to update todo %d: %w", id, err)
	}

	return updated, nil
}

// Delete removes a todo
func (s *TodoService) Delete(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, todoEndpoint(id), nil); err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, err)
	}

	return nil
}

func todoEndpoint(id int) string {
	return fmt.Sprintf("/todos/%d", id)
}
