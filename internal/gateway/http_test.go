package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetchat/internal/chat"
)

func TestCreateChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chats" {
			t.Errorf("got %s %s, want POST /chats", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"chat_id": "c1"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithTokenSource(func() string { return "tok123" }))
	id, err := c.CreateChat(t.Context())
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if id != "c1" {
		t.Errorf("id = %q, want c1", id)
	}
}

func TestListChats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"chats": []map[string]any{
				{"id": "c2", "title": "Railways", "created_at": "2026-02-01T10:00:00Z"},
				{"id": "c1", "title": nil, "created_at": "2026-01-15T09:30:00Z"},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	convs, err := c.ListChats(t.Context())
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("got %d conversations, want 2", len(convs))
	}
	if convs[0].ID != "c2" || convs[0].Title != "Railways" {
		t.Errorf("first = %+v, want c2/Railways", convs[0])
	}
	if convs[1].Title != "" {
		t.Errorf("null title = %q, want empty", convs[1].Title)
	}
}

func TestGetChat(t *testing.T) {
	t.Run("full conversation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chats/c1" {
				t.Errorf("path = %s, want /chats/c1", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"id":         "c1",
				"title":      "Defence",
				"created_at": "2026-02-01T10:00:00Z",
				"messages": []map[string]any{
					{"id": "m1", "role": "user", "content": "How much for defence?", "created_at": "2026-02-01T10:00:01Z"},
					{
						"id": "m2", "role": "assistant", "content": "6.2 lakh crore",
						"sources":    []map[string]any{{"doc_name": "expenditure-budget.pdf", "page_number": 12}},
						"created_at": "2026-02-01T10:00:05Z",
					},
				},
			})
		}))
		defer srv.Close()

		c := NewHTTPClient(srv.URL)
		conv, err := c.GetChat(t.Context(), "c1")
		if err != nil {
			t.Fatalf("GetChat: %v", err)
		}
		if len(conv.Messages) != 2 {
			t.Fatalf("got %d messages, want 2", len(conv.Messages))
		}
		if conv.Messages[1].Role != chat.RoleAssistant {
			t.Errorf("role = %q, want assistant", conv.Messages[1].Role)
		}
		src := conv.Messages[1].Sources
		if len(src) != 1 || src[0].DocName != "expenditure-budget.pdf" || src[0].PageNumber != 12 {
			t.Errorf("sources = %+v, want expenditure-budget.pdf p.12", src)
		}
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewHTTPClient(srv.URL)
		if _, err := c.GetChat(t.Context(), "ghost"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chats/c1/message" {
			t.Errorf("path = %s, want /chats/c1/message", r.URL.Path)
		}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if body.Message != "How much for railways?" {
			t.Errorf("message = %q", body.Message)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"answer":     "2.65 lakh crore",
			"message_id": "m9",
			"sources":    []map[string]any{{"doc_name": "budget-speech.pdf", "page_number": 4}},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.SendMessage(t.Context(), "c1", "How much for railways?")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if res.Answer != "2.65 lakh crore" || res.MessageID != "m9" {
		t.Errorf("result = %+v", res)
	}
}

func TestDeleteChat(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	if err := c.DeleteChat(t.Context(), "c1"); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	if method != http.MethodDelete || path != "/chats/c1" {
		t.Errorf("got %s %s, want DELETE /chats/c1", method, path)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s, want /auth/login", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message":      "ok",
			"access_token": "tok123",
			"user":         map[string]string{"id": "u1", "name": "Asha", "email": "asha@example.com"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.Login(t.Context(), "asha@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken != "tok123" || res.User.Name != "Asha" {
		t.Errorf("result = %+v", res)
	}
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"quota exceeded"}`, "quota exceeded"},
		{"detail field", `{"detail":"invalid token"}`, "invalid token"},
		{"garbage body", `<html>oops</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL)
			_, err := c.ListChats(t.Context())

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.StatusCode != http.StatusBadGateway {
				t.Errorf("status = %d, want 502", apiErr.StatusCode)
			}
			if apiErr.Message != tt.want {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.want)
			}
		})
	}
}

func TestUnauthenticatedRequestOmitsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("Authorization header sent without a token")
		}
		json.NewEncoder(w).Encode(map[string]any{"chats": []any{}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithTokenSource(func() string { return "" }))
	if _, err := c.ListChats(t.Context()); err != nil {
		t.Fatalf("ListChats: %v", err)
	}
}
