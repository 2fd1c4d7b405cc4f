package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/innovedge/matchbot/internal/logger"
	"github.com/innovedge/matchbot/internal/model"
)

type flowKind string

const (
	flowRegistration    flowKind = "registration"
	flowTaskPosting     flowKind = "task_posting"
	flowProfileEdit     flowKind = "profile_edit"
	flowProfileDeletion flowKind = "profile_deletion"
)

// step is one state of a linear flow: the prompt emitted on entry, the field
// it fills, and the validator run against incoming text.
type step struct {
	prompt   model.Reply
	field    string
	validate func(text string) (string, error)
}

// flow is an ordered chain of steps ending in a completion action. The
// completion performs the flow's single store write from the buffered fields.
type flow struct {
	kind     flowKind
	steps    []step
	complete func(ctx context.Context, telegramID int64, fields map[string]string) (model.Reply, error)
}

// session buffers fields collected across one user's active flow. It exists
// from flow entry until completion or cancellation.
type session struct {
	flow   *flow
	step   int
	fields map[string]string
}

// Conversation drives per-user dialogue flows. Callers must serialize events
// per user; the internal mutex only guards the session map itself.
type Conversation struct {
	userStore  model.UserStore
	taskStore  model.TaskStore
	classifier model.Classifier
	logger     *logger.Logger

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewConversation(
	userStore model.UserStore,
	taskStore model.TaskStore,
	classifier model.Classifier,
	logger *logger.Logger,
) *Conversation {
	return &Conversation{
		userStore:  userStore,
		taskStore:  taskStore,
		classifier: classifier,
		logger:     logger,
		sessions:   make(map[int64]*session),
	}
}

// Active reports whether the user has a flow in progress.
func (c *Conversation) Active(telegramID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[telegramID]
	return ok
}

// Cancel discards the user's session, if any, without mutating the store.
func (c *Conversation) Cancel(telegramID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sessions[telegramID]; !ok {
		return false
	}
	delete(c.sessions, telegramID)
	return true
}

// HandleText feeds one text input into the user's active flow. The second
// return value reports whether a flow consumed the input.
func (c *Conversation) HandleText(ctx context.Context, telegramID int64, text string) (model.Reply, bool, error) {
	c.mu.Lock()
	sess, ok := c.sessions[telegramID]
	c.mu.Unlock()
	if !ok {
		return model.Reply{}, false, nil
	}

	st := sess.flow.steps[sess.step]
	value, err := st.validate(text)
	if err != nil {
		// Re-prompt in place: no field written, state unchanged.
		c.logger.Debug("conversation: input rejected",
			"telegram_id", telegramID,
			"flow", sess.flow.kind,
			"step", sess.step,
			"reason", err.Error())
		reply := st.prompt
		reply.Text = err.Error()
		return reply, true, nil
	}

	sess.fields[st.field] = value

	if sess.step+1 < len(sess.flow.steps) {
		sess.step++
		return sess.flow.steps[sess.step].prompt, true, nil
	}

	reply, err := sess.flow.complete(ctx, telegramID, sess.fields)
	if err != nil {
		// Completion failed: the session stays so the user can retry or
		// cancel, and nothing is assumed committed.
		return model.Reply{}, true, fmt.Errorf("failed to complete %s flow: %w", sess.flow.kind, err)
	}

	c.mu.Lock()
	delete(c.sessions, telegramID)
	c.mu.Unlock()

	c.logger.Info("conversation: flow completed",
		"telegram_id", telegramID,
		"flow", sess.flow.kind)

	return reply, true, nil
}

// start replaces any active session with a fresh one for the given flow.
// Beginning a new flow while another is in progress discards the old buffer.
func (c *Conversation) start(telegramID int64, f *flow) model.Reply {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[telegramID] = &session{
		flow:   f,
		fields: make(map[string]string),
	}
	return f.steps[0].prompt
}
