package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/userapi/userapi/internal/model"
)

func TestToUserView_DropsTimestamps(t *testing.T) {
	now := time.Now()
	user := &model.User{
		ID:        "123",
		Name:      "John Doe",
		Email:     "john@doe.com",
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(ToUserView(user))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"id":"123","name":"John Doe","email":"john@doe.com"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestToUserViews(t *testing.T) {
	views := ToUserViews(nil)
	if views == nil || len(views) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", views)
	}

	data, _ := json.Marshal(views)
	if string(data) != "[]" {
		t.Errorf("empty list should encode as [], got %s", data)
	}

	users := []*model.User{
		{ID: "1", Name: "A", Email: "a@x.com"},
		{ID: "2", Name: "B", Email: "b@x.com"},
	}
	views = ToUserViews(users)
	if len(views) != 2 || views[0].ID != "1" || views[1].Email != "b@x.com" {
		t.Errorf("unexpected views: %+v", views)
	}
}

func TestUserRequest_NullAndMissing(t *testing.T) {
	tests := []struct {
		body      string
		wantName  bool
		wantEmail bool
	}{
		{`{}`, false, false},
		{`{"name":"x"}`, true, false},
		{`{"name":null,"email":"a@b.c"}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req UserRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if (req.Name != nil) != tt.wantName || (req.Email != nil) != tt.wantEmail {
				t.Errorf("name set=%v email set=%v", req.Name != nil, req.Email != nil)
			}
		})
	}
}
