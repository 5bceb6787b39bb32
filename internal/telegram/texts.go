package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UI texts
const (
	startText = "Привет! Я бот прогноза погоды и магнитных бурь. Настройки по умолчанию установлены.\n\n" +
		"Каждый день в выбранное время я пришлю прогноз. /settings: изменить настройки, " +
		"/weather и /magnetic: прогноз прямо сейчас."
	settingsText   = "Настройки:"
	askCityText    = "Пришлите название города"
	askTimeText    = "Введите время в формате ЧЧ:ММ (UTC)"
	askRegionText  = "Введите код региона магнитной активности (например, RAL5)"
	askProvider    = "Выберите источник:"
	badTimeText    = "Не понимаю время. Пример: 07:30"
	badCityText    = "Название города должно быть от 1 до 100 символов."
	badRegionText  = "Код региона состоит из латинских букв и цифр, например RAL5."
	unknownSource  = "Неизвестный источник."
	saveFailedText = "Не удалось сохранить настройки. Попробуйте позже."
	loadFailedText = "Не удалось прочитать настройки. Попробуйте позже."
	busyText       = "Сейчас слишком много запросов, попробуйте через минуту."
	statusTitle    = "Ваши настройки:"
	statusFmt      = "• Город: %s\n• Источник: %s\n• Время уведомлений: %s UTC\n• Регион магнитных данных: %s\n• Следующее уведомление: %s"
	regionNotFound = " (код не найден в каталоге X-RAS)"
)

// Callback data.
const (
	cbSettingsPrefix = "settings_"
	cbCity           = cbSettingsPrefix + "city"
	cbTime           = cbSettingsPrefix + "time"
	cbProvider       = cbSettingsPrefix + "provider"
	cbMagnetic       = cbSettingsPrefix + "magnetic"
	cbProviderPrefix = "provider_"
)

func cityChangedText(city string) string   { return "Город изменен на " + city }
func timeChangedText(at string) string     { return "Время уведомлений " + at }
func providerChangedText(p string) string  { return "Источник обновлен: " + p }
func regionChangedText(code string) string { return "Регион магнитных данных " + code }

func statusText(city, provider, at, region, next string) string {
	return statusTitle + "\n\n" + fmt.Sprintf(statusFmt, city, provider, at, region, next)
}

// mainMenuKeyboard is the persistent reply keyboard.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/weather"),
			tgbotapi.NewKeyboardButton("/magnetic"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/status"),
			tgbotapi.NewKeyboardButton("/settings"),
		),
	)
}

func settingsInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Изменить город", cbCity)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Изменить время", cbTime)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Изменить источник", cbProvider)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Изменить регион магнитных данных", cbMagnetic)),
	)
}

// providersKeyboard has one row per provider name.
func providersKeyboard(names []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(names))
	for _, name := range names {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, cbProviderPrefix+name),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
