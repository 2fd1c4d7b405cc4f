package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/innovedge/matchbot/internal/bot/telegram"
	"github.com/innovedge/matchbot/internal/logger"
	"github.com/innovedge/matchbot/internal/model"
	"github.com/innovedge/matchbot/internal/service"
)

const (
	callbackEditProfile   = "edit_profile"
	callbackSaveProfile   = "save_profile"
	callbackCancelEditing = "cancel_editing"
	callbackEditPrefix    = "edit_"
)

const genericFailureText = "An internal error occurred. Please try again later."

const helpText = `Help Menu:
/register - Register as TALENT or EMPLOYER.
/profile - View your profile and manage it.
/browse_tasks - (If TALENT) Browse available tasks.
/apply_task <task_id> - Apply to a specific task.
/like <user_id> - (If EMPLOYER) Like an applicant back.
/post_task - (If EMPLOYER) Post a new task.
/delete_profile - Delete your profile (requires confirmation).

Use the menu below for quick navigation.`

// Sender delivers outbound messages. Implemented by telegram.Client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup any) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

// UpdateSource supplies inbound updates. Implemented by telegram.Client.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64) ([]telegram.Update, error)
}

// Dispatcher routes inbound updates to the conversation and matching engines
// and delivers their replies. Updates are handled sequentially, which keeps
// per-user event ordering.
type Dispatcher struct {
	conversation *service.Conversation
	matching     *service.Matching
	profile      *service.Profile
	sender       Sender
	logger       *logger.Logger
}

func NewDispatcher(
	conversation *service.Conversation,
	matching *service.Matching,
	profile *service.Profile,
	sender Sender,
	logger *logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		conversation: conversation,
		matching:     matching,
		profile:      profile,
		sender:       sender,
		logger:       logger,
	}
}

// Run polls for updates until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context, source UpdateSource) error {
	var offset int64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := source.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.logger.Error("dispatcher: failed to get updates",
				"error", err.Error())
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			d.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes one inbound update end to end. Errors never escape:
// they are answered with a generic failure and logged.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		d.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *telegram.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if strings.HasPrefix(msg.Text, "/") {
		d.handleCommand(ctx, userID, chatID, msg.Text)
		return
	}

	reply, consumed, err := d.conversation.HandleText(ctx, userID, msg.Text)
	if err != nil {
		d.fail(ctx, chatID, "conversation input", err)
		return
	}
	if consumed {
		d.send(ctx, chatID, reply)
		return
	}

	d.handleMenuText(ctx, userID, chatID, msg.Text)
}

func (d *Dispatcher) handleCommand(ctx context.Context, userID, chatID int64, text string) {
	parts := strings.Fields(text)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/start":
		d.send(ctx, chatID, model.Reply{
			Text:     "Welcome to Innovedge Bot!\nUse /register to create your profile.",
			Keyboard: model.KeyboardMainMenu,
		})
	case "/help":
		d.send(ctx, chatID, model.Reply{Text: helpText, Keyboard: model.KeyboardMainMenu})
	case "/cancel":
		d.conversation.Cancel(userID)
		d.send(ctx, chatID, model.Reply{Text: "Operation canceled.", Keyboard: model.KeyboardMainMenu})
	case "/register":
		d.startFlow(ctx, chatID, "registration", func() (model.Reply, error) {
			return d.conversation.StartRegistration(ctx, userID)
		})
	case "/post_task":
		d.startFlow(ctx, chatID, "task posting", func() (model.Reply, error) {
			return d.conversation.StartTaskPosting(ctx, userID)
		})
	case "/delete_profile":
		d.startFlow(ctx, chatID, "profile deletion", func() (model.Reply, error) {
			return d.conversation.StartProfileDeletion(ctx, userID)
		})
	case "/profile":
		d.sendProfile(ctx, userID, chatID)
	case "/browse_tasks":
		d.browseTasks(ctx, userID, chatID)
	case "/apply_task":
		d.applyTask(ctx, userID, chatID, args)
	case "/like":
		d.likeBack(ctx, userID, chatID, args)
	default:
		d.send(ctx, chatID, model.Reply{
			Text:     "Unrecognized command. Use /help for assistance.",
			Keyboard: model.KeyboardMainMenu,
		})
	}
}

func (d *Dispatcher) handleMenuText(ctx context.Context, userID, chatID int64, text string) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case strings.ToLower(buttonHelp):
		d.send(ctx, chatID, model.Reply{Text: helpText, Keyboard: model.KeyboardMainMenu})
	case strings.ToLower(buttonProfile):
		d.sendProfile(ctx, userID, chatID)
	case strings.ToLower(buttonRecommendations):
		d.send(ctx, chatID, model.Reply{
			Text:     "Recommendations feature is coming soon!",
			Keyboard: model.KeyboardMainMenu,
		})
	case strings.ToLower(buttonShowMyLikes):
		d.showLikes(ctx, userID, chatID)
	default:
		d.send(ctx, chatID, model.Reply{
			Text:     "Unrecognized option. Use the menu buttons or /help for assistance.",
			Keyboard: model.KeyboardMainMenu,
		})
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	userID := cb.From.ID
	chatID := userID
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
	}

	if err := d.sender.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		d.logger.Error("dispatcher: failed to answer callback query",
			"error", err.Error())
	}

	switch {
	case cb.Data == callbackEditProfile:
		d.send(ctx, chatID, model.Reply{
			Text:     "Choose a field to edit:",
			Keyboard: model.KeyboardEditFields,
		})
	case cb.Data == callbackSaveProfile:
		d.send(ctx, chatID, model.Reply{Text: "Profile saved!", Keyboard: model.KeyboardMainMenu})
		d.sendProfile(ctx, userID, chatID)
	case cb.Data == callbackCancelEditing:
		d.conversation.Cancel(userID)
		d.send(ctx, chatID, model.Reply{Text: "Editing canceled.", Keyboard: model.KeyboardMainMenu})
		d.sendProfile(ctx, userID, chatID)
	case strings.HasPrefix(cb.Data, callbackEditPrefix):
		field, ok := model.ParseProfileField(strings.TrimPrefix(cb.Data, callbackEditPrefix))
		if !ok {
			return
		}
		d.startFlow(ctx, chatID, "profile edit", func() (model.Reply, error) {
			return d.conversation.StartProfileEdit(ctx, userID, field)
		})
	}
}

func (d *Dispatcher) sendProfile(ctx context.Context, userID, chatID int64) {
	user, err := d.profile.Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		d.send(ctx, chatID, model.Reply{
			Text:     "You are not registered. Use /register first.",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}
	if err != nil {
		d.fail(ctx, chatID, "profile lookup", err)
		return
	}

	d.send(ctx, chatID, model.Reply{Text: formatProfile(user), Keyboard: model.KeyboardProfile})
}

func (d *Dispatcher) browseTasks(ctx context.Context, userID, chatID int64) {
	user, err := d.profile.Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) || (err == nil && user.Role != model.RoleTalent) {
		d.send(ctx, chatID, model.Reply{
			Text:     "Only talents can browse tasks.",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}
	if err != nil {
		d.fail(ctx, chatID, "profile lookup", err)
		return
	}

	tasks, err := d.profile.BrowseTasks(ctx)
	if err != nil {
		d.fail(ctx, chatID, "task browsing", err)
		return
	}
	if len(tasks) == 0 {
		d.send(ctx, chatID, model.Reply{
			Text:     "No tasks available at the moment.",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}

	var b strings.Builder
	b.WriteString("Available Tasks:\n")
	for _, task := range tasks {
		fmt.Fprintf(&b, "ID: %s, Desc: %s, Categories: %s, Reward: %s\n",
			task.ID, preview(task.Description, 50), formatOptionalList(task.Categories), formatOptional(task.Reward))
	}

	d.send(ctx, chatID, model.Reply{Text: b.String(), Keyboard: model.KeyboardMainMenu})
}

func (d *Dispatcher) applyTask(ctx context.Context, userID, chatID int64, args []string) {
	if len(args) < 1 {
		d.send(ctx, chatID, model.Reply{
			Text:     "Usage: /apply_task <task_id>",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}

	taskID, err := uuid.Parse(args[0])
	if err != nil {
		d.send(ctx, chatID, model.Reply{
			Text:     "Task ID must be a valid identifier.",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}

	user, err := d.profile.Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		d.send(ctx, chatID, model.Reply{
			Text:     "Only talents can apply to tasks.",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}
	if err != nil {
		d.fail(ctx, chatID, "profile lookup", err)
		return
	}

	result, err := d.matching.ApplyToTask(ctx, user, taskID)
	if err != nil {
		d.fail(ctx, chatID, "task application", err)
		return
	}

	reply := model.Reply{Text: "Applied successfully!", Keyboard: model.KeyboardMainMenu}
	if result.MatchCreated {
		reply.Text = "Applied successfully, and it's a match!"
		reply.Notifications = []model.Notification{{
			TelegramID: result.Owner.TelegramID,
			Text:       "You have a new match!",
		}}
	} else {
		reply.Notifications = []model.Notification{{
			TelegramID: result.Owner.TelegramID,
			Text: fmt.Sprintf("%s applied to your task \"%s\". Reply /like %d to like them back.",
				user.Name, preview(result.Task.Description, 50), user.TelegramID),
		}}
	}

	d.send(ctx, chatID, reply)
}

func (d *Dispatcher) likeBack(ctx context.Context, userID, chatID int64, args []string) {
	if len(args) < 1 {
		d.send(ctx, chatID, model.Reply{
			Text:     "Usage: /like <user_id>",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}

	targetID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		d.send(ctx, chatID, model.Reply{
			Text:     "User ID must be a number.",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}

	user, err := d.profile.Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		d.send(ctx, chatID, model.Reply{
			Text:     "Only employers can like talents back.",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}
	if err != nil {
		d.fail(ctx, chatID, "profile lookup", err)
		return
	}

	result, err := d.matching.LikeBack(ctx, user, targetID)
	if err != nil {
		d.fail(ctx, chatID, "like back", err)
		return
	}

	reply := model.Reply{
		Text:     fmt.Sprintf("Liked %s back.", result.Target.Name),
		Keyboard: model.KeyboardMainMenu,
	}
	if result.MatchCreated {
		reply.Text = fmt.Sprintf("It's a match with %s!", result.Target.Name)
		reply.Notifications = []model.Notification{{
			TelegramID: result.Target.TelegramID,
			Text:       "You have a new match!",
		}}
	}

	d.send(ctx, chatID, reply)
}

func (d *Dispatcher) showLikes(ctx context.Context, userID, chatID int64) {
	user, err := d.profile.Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		d.send(ctx, chatID, model.Reply{
			Text:     "You are not registered. Use /register first.",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}
	if err != nil {
		d.fail(ctx, chatID, "profile lookup", err)
		return
	}

	likes, err := d.profile.LikesReceived(ctx, user)
	if err != nil {
		d.fail(ctx, chatID, "likes listing", err)
		return
	}
	if len(likes) == 0 {
		d.send(ctx, chatID, model.Reply{
			Text:     "Nobody has liked you yet.",
			Keyboard: model.KeyboardMainMenu,
		})
		return
	}

	var b strings.Builder
	b.WriteString("Your likes:\n")
	for _, from := range likes {
		fmt.Fprintf(&b, "%s (%s), ID: %d\n", from.Name, strings.ToUpper(string(from.Role)), from.TelegramID)
	}

	d.send(ctx, chatID, model.Reply{Text: b.String(), Keyboard: model.KeyboardMainMenu})
}

// startFlow enters a conversation flow, reporting precondition failures as
// user-visible rejections.
func (d *Dispatcher) startFlow(ctx context.Context, chatID int64, name string, start func() (model.Reply, error)) {
	reply, err := start()
	if err != nil {
		var precondition *model.PreconditionError
		if errors.As(err, &precondition) {
			d.send(ctx, chatID, model.Reply{Text: precondition.Reason, Keyboard: model.KeyboardMainMenu})
			return
		}
		d.fail(ctx, chatID, name, err)
		return
	}

	d.send(ctx, chatID, reply)
}

// send delivers a reply and its cross-user notifications.
func (d *Dispatcher) send(ctx context.Context, chatID int64, reply model.Reply) {
	if reply.Text != "" {
		if err := d.sender.SendMessage(ctx, chatID, reply.Text, markupFor(reply.Keyboard)); err != nil {
			d.logger.Error("dispatcher: failed to send message",
				"chat_id", chatID,
				"error", err.Error())
		}
	}

	for _, notification := range reply.Notifications {
		if err := d.sender.SendMessage(ctx, notification.TelegramID, notification.Text, nil); err != nil {
			d.logger.Error("dispatcher: failed to send notification",
				"chat_id", notification.TelegramID,
				"error", err.Error())
		}
	}
}

// fail resolves an operation error locally: known taxonomies become their
// message, everything else is logged and answered with a generic apology.
func (d *Dispatcher) fail(ctx context.Context, chatID int64, operation string, err error) {
	var validation *model.ValidationError
	var precondition *model.PreconditionError

	switch {
	case errors.As(err, &validation):
		d.send(ctx, chatID, model.Reply{Text: validation.Reason, Keyboard: model.KeyboardMainMenu})
	case errors.As(err, &precondition):
		d.send(ctx, chatID, model.Reply{Text: precondition.Reason, Keyboard: model.KeyboardMainMenu})
	default:
		d.logger.Error("dispatcher: operation failed",
			"operation", operation,
			"chat_id", chatID,
			"error", err.Error())
		d.send(ctx, chatID, model.Reply{Text: genericFailureText, Keyboard: model.KeyboardMainMenu})
	}
}

func formatProfile(user model.User) string {
	university := "N/A"
	if user.University != nil && *user.University != "" {
		university = *user.University
	}
	studyYear := "N/A"
	if user.StudyYear != nil {
		studyYear = strconv.Itoa(*user.StudyYear)
	}

	return fmt.Sprintf(
		"Your Profile:\nName: %s\nRole: %s\nDescription: %s\nCategories: %s\nUniversity: %s\nStudy Year: %s",
		user.Name,
		strings.ToUpper(string(user.Role)),
		formatOptional(user.Description),
		formatOptionalList(user.Categories),
		university,
		studyYear,
	)
}

func formatOptional(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func formatOptionalList(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, ", ")
}

func preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
