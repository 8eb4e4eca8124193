package cache

import (
	"testing"
	"time"

	"github.com/userapi/userapi/internal/model"
)

func TestUserKey(t *testing.T) {
	t.Parallel()

	if got := userKey("01HX"); got != "user:01HX" {
		t.Errorf("userKey = %q, want %q", got, "user:01HX")
	}
	if got := userVersionKey("01HX"); got != "user_version:01HX" {
		t.Errorf("userVersionKey = %q, want %q", got, "user_version:01HX")
	}
}

func TestUserFields_RoundTrip(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	user := &model.User{
		ID:        "01HX",
		Name:      "John Doe",
		Email:     "john@doe.com",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	raw := make(map[string]string)
	for k, v := range userToFields(user) {
		raw[k] = v.(string)
	}

	got, err := userFromFields(user.ID, raw)
	if err != nil {
		t.Fatalf("userFromFields failed: %v", err)
	}

	if got.ID != user.ID || got.Name != user.Name || got.Email != user.Email {
		t.Errorf("unexpected user: %+v", got)
	}
	if !got.CreatedAt.Equal(user.CreatedAt) || !got.UpdatedAt.Equal(user.UpdatedAt) {
		t.Errorf("timestamps changed: %v %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestUserFromFields_Corrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing timestamps", map[string]string{"name": "x"}},
		{"bad updated_at", map[string]string{"created_at": "2024-03-01T12:00:00Z", "updated_at": "yesterday"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := userFromFields("id", tt.fields); err == nil {
				t.Error("expected error for corrupt entry")
			}
		})
	}
}

func TestNewWithClient_DefaultTTL(t *testing.T) {
	t.Parallel()

	c := NewWithClient(nil, 0)
	if c.ttl != DefaultUserTTL {
		t.Errorf("ttl = %s, want %s", c.ttl, DefaultUserTTL)
	}
}
