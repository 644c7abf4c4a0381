package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/todoterm/todoterm/internal/api"
	"github.com/todoterm/todoterm/internal/todo"
)

func newService(t *testing.T, handler http.Handler) *api.TodoService {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return api.NewTodoService(api.NewClient(ts.URL, time.Second, nil, nil))
}

func TestTodoServiceEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("ListTodos hits GET /todos/{userId}", func(t *testing.T) {
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/todos/7" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			json.NewEncoder(w).Encode([]todo.Item{{ID: 1, Text: "Buy milk"}})
		}))
		items, err := svc.ListTodos(ctx, 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].Text != "Buy milk" {
			t.Errorf("unexpected items: %+v", items)
		}
	})

	t.Run("ListTodos maps empty response to empty slice", func(t *testing.T) {
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		items, err := svc.ListTodos(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", items)
		}
	})

	t.Run("CreateTodo sends JSON user_id and text", func(t *testing.T) {
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/todos" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"user_id":1,"text":"Buy milk"}` {
				t.Errorf("unexpected body: %s", body)
			}
			w.WriteHeader(http.StatusOK)
		}))
		if err := svc.CreateTodo(ctx, 1, "Buy milk"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("CreateTodoWithFile sends multipart user_id, text, file", func(t *testing.T) {
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse multipart: %v", err)
			}
			if got := r.FormValue("user_id"); got != "1" {
				t.Errorf("user_id = %q", got)
			}
			if got := r.FormValue("text"); got != "Buy milk" {
				t.Errorf("text = %q", got)
			}
			f, hdr, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("file part: %v", err)
			}
			defer f.Close()
			data, _ := io.ReadAll(f)
			if hdr.Filename != "receipt.png" || string(data) != "png-bytes" {
				t.Errorf("unexpected file part: %s %q", hdr.Filename, data)
			}
			w.WriteHeader(http.StatusOK)
		}))
		staged := todo.StageFile("receipt.png", []byte("png-bytes"))
		defer staged.Release()
		if err := svc.CreateTodoWithFile(ctx, 1, "Buy milk", staged); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("UpdateTodo sends JSON text only", func(t *testing.T) {
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/todos/3" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"text":"Buy oat milk"}` {
				t.Errorf("unexpected body: %s", body)
			}
		}))
		if err := svc.UpdateTodo(ctx, 3, "Buy oat milk"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("UpdateTodoWithFile sends multipart text and file", func(t *testing.T) {
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/todos/3" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse multipart: %v", err)
			}
			if got := r.FormValue("text"); got != "Buy oat milk" {
				t.Errorf("text = %q", got)
			}
			if _, _, err := r.FormFile("file"); err != nil {
				t.Errorf("file part: %v", err)
			}
		}))
		staged := todo.StageFile("oat.jpg", []byte("jpg"))
		defer staged.Release()
		if err := svc.UpdateTodoWithFile(ctx, 3, "Buy oat milk", staged); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("UpdateTodoRemovingFile flags the removal", func(t *testing.T) {
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"text":"Buy milk","remove_attachment":true}` {
				t.Errorf("unexpected body: %s", body)
			}
		}))
		if err := svc.UpdateTodoRemovingFile(ctx, 3, "Buy milk"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("DeleteTodo hits DELETE /todos/{id}", func(t *testing.T) {
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/todos/9" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
		}))
		if err := svc.DeleteTodo(ctx, 9); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("SignIn posts credentials and decodes the flag", func(t *testing.T) {
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/signin" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			var creds map[string]string
			json.NewDecoder(r.Body).Decode(&creds)
			if creds["username"] != "ada" || creds["password"] != "pw" {
				t.Errorf("unexpected credentials: %v", creds)
			}
			json.NewEncoder(w).Encode(api.SignInResponse{
				Success: true,
				User:    api.SignInUser{ID: 42, Username: "ada"},
			})
		}))
		resp, err := svc.SignIn(ctx, "ada", "pw")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.Success || resp.User.Username != "ada" || resp.User.ID != 42 {
			t.Errorf("unexpected response: %+v", resp)
		}
	})
}
