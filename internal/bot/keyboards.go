package bot

import (
	"github.com/innovedge/matchbot/internal/bot/telegram"
	"github.com/innovedge/matchbot/internal/model"
)

const (
	buttonHelp            = "Help"
	buttonProfile         = "Profile"
	buttonRecommendations = "Recommendations"
	buttonShowMyLikes     = "Show My Likes"
)

func mainMenuMarkup() telegram.ReplyKeyboardMarkup {
	return telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.KeyboardButton{
			{{Text: buttonHelp}, {Text: buttonProfile}},
			{{Text: buttonRecommendations}, {Text: buttonShowMyLikes}},
		},
		ResizeKeyboard: true,
	}
}

func roleMarkup() telegram.ReplyKeyboardMarkup {
	return telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.KeyboardButton{
			{{Text: "TALENT"}, {Text: "EMPLOYER"}},
		},
		OneTimeKeyboard: true,
	}
}

func profileMarkup() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "Edit Profile", CallbackData: callbackEditProfile},
				{Text: "Save Profile", CallbackData: callbackSaveProfile},
			},
		},
	}
}

func editFieldsMarkup() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "Name", CallbackData: callbackEditPrefix + string(model.FieldName)},
				{Text: "Description", CallbackData: callbackEditPrefix + string(model.FieldDescription)},
			},
			{
				{Text: "University", CallbackData: callbackEditPrefix + string(model.FieldUniversity)},
				{Text: "Study Year", CallbackData: callbackEditPrefix + string(model.FieldStudyYear)},
			},
			{
				{Text: "Cancel Editing", CallbackData: callbackCancelEditing},
			},
		},
	}
}

func cancelEditMarkup() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "Cancel Editing", CallbackData: callbackCancelEditing}},
		},
	}
}

// markupFor resolves a keyboard hint into concrete Bot API markup.
func markupFor(keyboard model.Keyboard) any {
	switch keyboard {
	case model.KeyboardMainMenu:
		return mainMenuMarkup()
	case model.KeyboardRole:
		return roleMarkup()
	case model.KeyboardRemove:
		return telegram.ReplyKeyboardRemove{RemoveKeyboard: true}
	case model.KeyboardProfile:
		return profileMarkup()
	case model.KeyboardEditFields:
		return editFieldsMarkup()
	case model.KeyboardCancelEdit:
		return cancelEditMarkup()
	default:
		return nil
	}
}
