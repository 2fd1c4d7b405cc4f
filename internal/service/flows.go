package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/innovedge/matchbot/internal/model"
)

// DeleteConfirmPhrase must be typed verbatim to delete a profile. Any other
// input, whitespace deviations included, aborts the deletion.
const DeleteConfirmPhrase = "papafranchesco is genius"

// StartRegistration begins the registration flow: role, name, then a skills
// description that is classified into categories on completion.
func (c *Conversation) StartRegistration(ctx context.Context, telegramID int64) (model.Reply, error) {
	_, err := c.userStore.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return model.Reply{}, model.NewPreconditionError("You are already registered. Use /profile to manage your profile.")
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Reply{}, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	f := &flow{
		kind: flowRegistration,
		steps: []step{
			{
				prompt: model.Reply{
					Text:     "Are you registering as TALENT or EMPLOYER?",
					Keyboard: model.KeyboardRole,
				},
				field: "role",
				validate: func(text string) (string, error) {
					role, ok := model.ParseUserRole(text)
					if !ok {
						return "", model.NewValidationError("Please choose TALENT or EMPLOYER.")
					}
					return string(role), nil
				},
			},
			{
				prompt: model.Reply{
					Text:     "Great, what's your name?",
					Keyboard: model.KeyboardRemove,
				},
				field:    "name",
				validate: requireNonEmpty("Name cannot be empty."),
			},
			{
				prompt: model.Reply{
					Text: "Please describe your skill sets or expertise (e.g., 'I am good at web development and design').",
				},
				field:    "skills",
				validate: requireNonEmpty("Description cannot be empty."),
			},
		},
		complete: c.completeRegistration,
	}

	return c.start(telegramID, f), nil
}

func (c *Conversation) completeRegistration(ctx context.Context, telegramID int64, fields map[string]string) (model.Reply, error) {
	description := fields["skills"]
	categories := c.categorize(ctx, description)

	user, err := c.userStore.Create(ctx, model.User{
		ID:          uuid.New(),
		TelegramID:  telegramID,
		Name:        fields["name"],
		Role:        model.UserRole(fields["role"]),
		Description: description,
		Categories:  categories,
	})
	if err != nil {
		return model.Reply{}, fmt.Errorf("failed to create user: %w", err)
	}

	return model.Reply{
		Text:     fmt.Sprintf("Registered %s as %s! Categories: %s", user.Name, strings.ToUpper(string(user.Role)), formatCategories(user.Categories)),
		Keyboard: model.KeyboardMainMenu,
	}, nil
}

// StartTaskPosting begins the task-posting flow. Only registered employers may
// post tasks.
func (c *Conversation) StartTaskPosting(ctx context.Context, telegramID int64) (model.Reply, error) {
	user, err := c.userStore.GetByTelegramID(ctx, telegramID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Reply{}, model.NewPreconditionError("Only employers can post tasks.")
	}
	if err != nil {
		return model.Reply{}, fmt.Errorf("failed to get user by telegram id: %w", err)
	}
	if user.Role != model.RoleEmployer {
		return model.Reply{}, model.NewPreconditionError("Only employers can post tasks.")
	}

	f := &flow{
		kind: flowTaskPosting,
		steps: []step{
			{
				prompt: model.Reply{
					Text:     "Please provide a description of the task:",
					Keyboard: model.KeyboardRemove,
				},
				field:    "description",
				validate: requireNonEmpty("Task description cannot be empty."),
			},
			{
				prompt:   model.Reply{Text: "Got it. What's the timeframe for this task?"},
				field:    "timeframe",
				validate: requireNonEmpty("Timeframe cannot be empty."),
			},
			{
				prompt:   model.Reply{Text: "What is the reward for completing this task?"},
				field:    "reward",
				validate: requireNonEmpty("Reward cannot be empty."),
			},
		},
		complete: c.completeTaskPosting,
	}

	return c.start(telegramID, f), nil
}

func (c *Conversation) completeTaskPosting(ctx context.Context, telegramID int64, fields map[string]string) (model.Reply, error) {
	owner, err := c.userStore.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return model.Reply{}, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	description := fields["description"]
	categories := c.categorize(ctx, description)

	task, err := c.taskStore.Create(ctx, model.Task{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		Description: description,
		Timeframe:   fields["timeframe"],
		Reward:      fields["reward"],
		Categories:  categories,
	})
	if err != nil {
		return model.Reply{}, fmt.Errorf("failed to create task: %w", err)
	}

	return model.Reply{
		Text:     fmt.Sprintf("Task posted successfully with ID %s! Categories: %s", task.ID, formatCategories(task.Categories)),
		Keyboard: model.KeyboardMainMenu,
	}, nil
}

// StartProfileEdit begins a single-field edit flow. The target field is
// resolved once at entry from the closed ProfileField enum.
func (c *Conversation) StartProfileEdit(ctx context.Context, telegramID int64, field model.ProfileField) (model.Reply, error) {
	_, err := c.userStore.GetByTelegramID(ctx, telegramID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Reply{}, model.NewPreconditionError("You are not registered. Use /register first.")
	}
	if err != nil {
		return model.Reply{}, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	validate := requireNonEmpty(fmt.Sprintf("%s cannot be empty.", fieldTitle(field)))
	if field == model.FieldStudyYear {
		validate = validateStudyYear
	}

	f := &flow{
		kind: flowProfileEdit,
		steps: []step{
			{
				prompt: model.Reply{
					Text:     fmt.Sprintf("Enter new value for %s:", field),
					Keyboard: model.KeyboardCancelEdit,
				},
				field:    "value",
				validate: validate,
			},
		},
		complete: func(ctx context.Context, telegramID int64, fields map[string]string) (model.Reply, error) {
			return c.completeProfileEdit(ctx, telegramID, field, fields["value"])
		},
	}

	return c.start(telegramID, f), nil
}

func (c *Conversation) completeProfileEdit(ctx context.Context, telegramID int64, field model.ProfileField, value string) (model.Reply, error) {
	user, err := c.userStore.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return model.Reply{}, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	switch field {
	case model.FieldName:
		user.Name = value
	case model.FieldDescription:
		user.Description = value
	case model.FieldUniversity:
		user.University = &value
	case model.FieldStudyYear:
		year, err := strconv.Atoi(value)
		if err != nil {
			return model.Reply{}, fmt.Errorf("study year is not numeric: %w", err)
		}
		user.StudyYear = &year
	default:
		return model.Reply{}, fmt.Errorf("unknown profile field: %s", field)
	}

	if _, err := c.userStore.Update(ctx, user); err != nil {
		return model.Reply{}, fmt.Errorf("failed to update user: %w", err)
	}

	return model.Reply{
		Text:     fmt.Sprintf("%s updated successfully!", fieldTitle(field)),
		Keyboard: model.KeyboardMainMenu,
	}, nil
}

// StartProfileDeletion begins the double-confirmed deletion flow.
func (c *Conversation) StartProfileDeletion(ctx context.Context, telegramID int64) (model.Reply, error) {
	_, err := c.userStore.GetByTelegramID(ctx, telegramID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Reply{}, model.NewPreconditionError("You have no profile to delete.")
	}
	if err != nil {
		return model.Reply{}, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	f := &flow{
		kind: flowProfileDeletion,
		steps: []step{
			{
				prompt: model.Reply{
					Text: fmt.Sprintf(
						"Are you sure you want to delete your profile? If yes, type exactly:\n\n%s\n\nOtherwise, /cancel.",
						DeleteConfirmPhrase,
					),
					Keyboard: model.KeyboardRemove,
				},
				field: "confirmation",
				// Raw input is compared in the completion; any mismatch
				// aborts rather than re-prompts.
				validate: func(text string) (string, error) { return text, nil },
			},
		},
		complete: c.completeProfileDeletion,
	}

	return c.start(telegramID, f), nil
}

func (c *Conversation) completeProfileDeletion(ctx context.Context, telegramID int64, fields map[string]string) (model.Reply, error) {
	if fields["confirmation"] != DeleteConfirmPhrase {
		return model.Reply{
			Text:     "Profile deletion canceled or phrase not matched.",
			Keyboard: model.KeyboardMainMenu,
		}, nil
	}

	user, err := c.userStore.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return model.Reply{}, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	if err := c.userStore.Delete(ctx, user.ID); err != nil {
		return model.Reply{}, fmt.Errorf("failed to delete user: %w", err)
	}

	c.logger.Info("conversation: profile deleted",
		"telegram_id", telegramID,
		"user_id", user.ID)

	return model.Reply{
		Text:     "Your profile has been deleted.",
		Keyboard: model.KeyboardMainMenu,
	}, nil
}

// categorize asks the classifier for labels. Classification is best-effort:
// failures are logged and the entity is stored without categories.
func (c *Conversation) categorize(ctx context.Context, text string) []string {
	if c.classifier == nil {
		return nil
	}

	categories, err := c.classifier.Categorize(ctx, text)
	if err != nil {
		c.logger.Warn("conversation: classification failed",
			"error", err.Error())
		return nil
	}

	return categories
}

func requireNonEmpty(reason string) func(string) (string, error) {
	return func(text string) (string, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			return "", model.NewValidationError(reason)
		}
		return text, nil
	}
}

func validateStudyYear(text string) (string, error) {
	text = strings.TrimSpace(text)
	year, err := strconv.Atoi(text)
	if err != nil || year < 0 {
		return "", model.NewValidationError("Study year must be a number, try again or cancel editing.")
	}
	return strconv.Itoa(year), nil
}

func fieldTitle(field model.ProfileField) string {
	switch field {
	case model.FieldName:
		return "Name"
	case model.FieldDescription:
		return "Description"
	case model.FieldUniversity:
		return "University"
	case model.FieldStudyYear:
		return "Study year"
	default:
		return string(field)
	}
}

func formatCategories(categories []string) string {
	if len(categories) == 0 {
		return "None"
	}
	return strings.Join(categories, ", ")
}
