package bot

import (
	"fmt"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yt-fetch-bot/internal/model"
	"yt-fetch-bot/internal/quality"
)

// jobsListLimit caps how many recent jobs /jobs renders.
const jobsListLimit = 10

const callbackPrefix = "dl"

var urlRe = regexp.MustCompile(`https?://[^\s]+`)

// ExtractURL pulls the first http(s) link out of a chat message.
func ExtractURL(text string) (string, bool) {
	match := urlRe.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// CallbackData encodes a quality choice for a job into the payload
// carried by an inline keyboard button.
func CallbackData(jobID, selector string) string {
	return callbackPrefix + ":" + jobID + ":" + selector
}

// ParseCallback decodes a keyboard button payload back into its job id
// and selector.
func ParseCallback(data string) (jobID, selector string, err error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != callbackPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("malformed callback data %q", data)
	}
	return parts[1], parts[2], nil
}

var selectorLabels = map[string]string{
	quality.SelectorBest:  "🏆 Best",
	quality.Selector1080p: "1080p",
	quality.Selector720p:  "720p",
	quality.Selector480p:  "480p",
	quality.SelectorAudio: "🎵 Audio only",
}

// QualityKeyboard builds the inline keyboard offered after a link is
// submitted, one button per accepted selector.
func QualityKeyboard(jobID string) tgbotapi.InlineKeyboardMarkup {
	selectors := quality.Selectors()
	row := make([]tgbotapi.InlineKeyboardButton, 0, 3)
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 2)
	for _, sel := range selectors {
		label := selectorLabels[sel]
		if label == "" {
			label = sel
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, CallbackData(jobID, sel)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 3)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

var statusGlyphs = map[string]string{
	model.StatusWaiting: "🕓",
	model.StatusQueued:  "⏳",
	model.StatusRunning: "⬇️",
	model.StatusDone:    "✅",
	model.StatusError:   "❌",
}

// StatusGlyph maps a job status to the emoji shown in listings.
func StatusGlyph(status string) string {
	if glyph, ok := statusGlyphs[status]; ok {
		return glyph
	}
	return "❔"
}

// RenderJobLine formats one job for the /jobs listing.
func RenderJobLine(job model.Job) string {
	title := job.Title
	if title == "" {
		title = job.URL
	}
	line := fmt.Sprintf("%s %s: %s", StatusGlyph(job.Status), job.ID, title)
	switch job.Status {
	case model.StatusRunning:
		line += " (" + job.Progress.Percent + ")"
	case model.StatusDone:
		if job.Filesize > 0 {
			line += " (" + model.FormatSize(job.Filesize) + ")"
		}
	case model.StatusError:
		line += " (" + job.Error + ")"
	}
	return line
}
