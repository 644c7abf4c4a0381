package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/todoterm/todoterm/internal/todo"
)

// TodoService exposes the typed endpoints of the to-do backend.
type TodoService struct {
	client *Client
}

func NewTodoService(client *Client) *TodoService {
	return &TodoService{client: client}
}

// ListTodos fetches the full collection for a user.
func (s *TodoService) ListTodos(ctx context.Context, userID int64) ([]todo.Item, error) {
	var items []todo.Item
	if err := s.client.Get(ctx, "/todos/"+strconv.FormatInt(userID, 10), nil, &items); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if items == nil {
		items = []todo.Item{}
	}
	return items, nil
}

type createTodoRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

// CreateTodo creates an item without an attachment.
func (s *TodoService) CreateTodo(ctx context.Context, userID int64, text string) error {
	if err := s.client.Post(ctx, "/todos", createTodoRequest{UserID: userID, Text: text}, nil); err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

// CreateTodoWithFile creates an item with a staged attachment. The request is
// a multipart form with fields user_id, text, and file.
func (s *TodoService) CreateTodoWithFile(ctx context.Context, userID int64, text string, f *todo.StagedFile) error {
	fields := map[string]string{
		"user_id": strconv.FormatInt(userID, 10),
		"text":    text,
	}
	if err := s.client.PostMultipart(ctx, "/todos", fields, f.Name, f.Data, nil); err != nil {
		return fmt.Errorf("create todo with file: %w", err)
	}
	return nil
}

type updateTodoRequest struct {
	Text             string `json:"text"`
	RemoveAttachment bool   `json:"remove_attachment,omitempty"`
}

// UpdateTodo updates an item's text. An unchanged existing attachment is
// never resent.
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, text string) error {
	if err := s.client.Put(ctx, "/todos/"+strconv.FormatInt(id, 10), updateTodoRequest{Text: text}, nil); err != nil {
		return fmt.Errorf("update todo %d: %w", id, err)
	}
	return nil
}

// UpdateTodoRemovingFile updates the text and drops the item's attachment.
func (s *TodoService) UpdateTodoRemovingFile(ctx context.Context, id int64, text string) error {
	req := updateTodoRequest{Text: text, RemoveAttachment: true}
	if err := s.client.Put(ctx, "/todos/"+strconv.FormatInt(id, 10), req, nil); err != nil {
		return fmt.Errorf("update todo %d: %w", id, err)
	}
	return nil
}

// UpdateTodoWithFile updates an item's text and replaces its attachment.
func (s *TodoService) UpdateTodoWithFile(ctx context.Context, id int64, text string, f *todo.StagedFile) error {
	fields := map[string]string{"text": text}
	if err := s.client.PutMultipart(ctx, "/todos/"+strconv.FormatInt(id, 10), fields, f.Name, f.Data, nil); err != nil {
		return fmt.Errorf("update todo %d with file: %w", id, err)
	}
	return nil
}

// DeleteTodo deletes an item by id.
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, "/todos/"+strconv.FormatInt(id, 10), nil); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

// SignInUser is the identity block of a sign-in response.
type SignInUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// SignInResponse is the POST /api/signin payload. Success is a logical flag:
// wrong credentials come back as a 2xx with Success=false.
type SignInResponse struct {
	Success bool       `json:"success"`
	User    SignInUser `json:"user"`
	// Token is set by backends that hand out the access token in-band.
	Token string `json:"token,omitempty"`
}

// SignIn exchanges credentials for a session identity.
func (s *TodoService) SignIn(ctx context.Context, username, password string) (*SignInResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var resp SignInResponse
	if err := s.client.Post(ctx, "/api/signin", body, &resp); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return &resp, nil
}
