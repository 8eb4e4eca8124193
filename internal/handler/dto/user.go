// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/userapi/userapi/internal/model"
)

// UserRequest is the body of create and update requests.
// A missing or null field decodes to nil.
type UserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserView is the external representation of a user.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserView projects a User onto its response shape.
func ToUserView(user *model.User) UserView {
	return UserView{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserViews projects every user, preserving order.
func ToUserViews(users []*model.User) []UserView {
	views := make([]UserView, len(users))
	for i, user := range users {
		views[i] = ToUserView(user)
	}
	return views
}
