package model

// Keyboard hints which button layout should accompany a reply. The transport
// layer decides how each hint is rendered.
type Keyboard string

const (
	// KeyboardNone leaves the current layout in place.
	KeyboardNone Keyboard = ""
	// KeyboardMainMenu shows the persistent main menu.
	KeyboardMainMenu Keyboard = "main_menu"
	// KeyboardRole offers the TALENT/EMPLOYER choice.
	KeyboardRole Keyboard = "role"
	// KeyboardRemove hides any reply keyboard.
	KeyboardRemove Keyboard = "remove"
	// KeyboardProfile shows the edit/save profile actions.
	KeyboardProfile Keyboard = "profile"
	// KeyboardEditFields shows the editable field menu.
	KeyboardEditFields Keyboard = "edit_fields"
	// KeyboardCancelEdit shows a single cancel-editing action.
	KeyboardCancelEdit Keyboard = "cancel_edit"
)

// Reply is the outbound payload produced by a handled event: the answer to the
// originating user plus any cross-user notifications.
type Reply struct {
	Text          string
	Keyboard      Keyboard
	Notifications []Notification
}

// Notification is a message addressed to a user other than the one whose
// event produced it.
type Notification struct {
	TelegramID int64
	Text       string
}
