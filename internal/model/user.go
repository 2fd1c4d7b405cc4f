package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// User represents a registered marketplace participant.
type User struct {
	ID          uuid.UUID
	TelegramID  int64
	Name        string
	Role        UserRole
	Description string
	Categories  []string
	University  *string
	StudyYear   *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserRole enumerates marketplace roles.
type UserRole string

const (
	// RoleTalent applies to tasks.
	RoleTalent UserRole = "talent"
	// RoleEmployer posts tasks.
	RoleEmployer UserRole = "employer"
)

// ParseUserRole maps user input to a role, case-insensitively.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(normalizeLower(s)) {
	case RoleTalent:
		return RoleTalent, true
	case RoleEmployer:
		return RoleEmployer, true
	default:
		return "", false
	}
}

func normalizeLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ProfileField enumerates the editable profile fields.
type ProfileField string

const (
	FieldName        ProfileField = "name"
	FieldDescription ProfileField = "description"
	FieldUniversity  ProfileField = "university"
	FieldStudyYear   ProfileField = "study_year"
)

// ParseProfileField maps a callback payload to an editable field.
func ParseProfileField(s string) (ProfileField, bool) {
	switch ProfileField(s) {
	case FieldName, FieldDescription, FieldUniversity, FieldStudyYear:
		return ProfileField(s), true
	default:
		return "", false
	}
}
