package telegram

import (
	"github.com/Vovarama1992/ranto_vox/internal/locale"
	"github.com/Vovarama1992/ranto_vox/internal/settings"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// callback data инлайн-меню
const (
	cbMaleVoice   = "male_vg"
	cbFemaleVoice = "female_vg"
	cbCancelVoice = "cancel_vg"

	cbRussianSTT = "RussianSTTL"
	cbEnglishSTT = "EnglishSTTL"
	cbCancelSTT  = "CancelSTTL"

	cbRussianBot = "RussianBOTL"
	cbEnglishBot = "EnglishBOTL"
	cbCancelBot  = "CancelBOTL"
)

func singleColumn(buttons ...tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(b))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildVoiceKeyboard предлагает противоположный пол и отмену.
func buildVoiceKeyboard(botLang, current string) tgbotapi.InlineKeyboardMarkup {
	var other tgbotapi.InlineKeyboardButton
	if current == settings.GenderFemale {
		other = tgbotapi.NewInlineKeyboardButtonData("👨 "+locale.Get(botLang, locale.KeyMaleButton), cbMaleVoice)
	} else {
		other = tgbotapi.NewInlineKeyboardButtonData("👩 "+locale.Get(botLang, locale.KeyFemaleButton), cbFemaleVoice)
	}
	return singleColumn(
		other,
		tgbotapi.NewInlineKeyboardButtonData("💢 "+locale.Get(botLang, locale.KeyCancelButton), cbCancelVoice),
	)
}

// buildLangKeyboard: общий вид для языка распознавания и языка интерфейса.
func buildLangKeyboard(botLang, current, russianData, englishData, cancelData string) tgbotapi.InlineKeyboardMarkup {
	var other tgbotapi.InlineKeyboardButton
	if current == settings.LangEnglish {
		other = tgbotapi.NewInlineKeyboardButtonData("🇷🇺 "+locale.Get(botLang, locale.KeyRussianButton), russianData)
	} else {
		other = tgbotapi.NewInlineKeyboardButtonData("🇺🇸 "+locale.Get(botLang, locale.KeyEnglishButton), englishData)
	}
	return singleColumn(
		other,
		tgbotapi.NewInlineKeyboardButtonData("💢 "+locale.Get(botLang, locale.KeyCancelButton), cancelData),
	)
}

func genderName(botLang, gender string) string {
	if gender == settings.GenderFemale {
		return locale.Get(botLang, locale.KeyFemaleButton)
	}
	return locale.Get(botLang, locale.KeyMaleButton)
}

func languageName(botLang, lang string) string {
	if lang == settings.LangEnglish {
		return locale.Get(botLang, locale.KeyEnglishButton)
	}
	return locale.Get(botLang, locale.KeyRussianButton)
}
