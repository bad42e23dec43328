package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yt-fetch-bot/internal/model"
)

// notifier applies job lifecycle events to the chat: it edits the
// status message while the job runs, uploads the artifact on
// completion, and reports failures. Jobs without chat correlation
// (created over the REST API) are skipped.
type notifier struct {
	bot *Bot
}

func (n *notifier) Downloading(job model.Job) {
	if job.ChatID == 0 {
		return
	}
	text := fmt.Sprintf("⬇️ Downloading: %s", job.Title)
	if job.Duration > 0 {
		text += "\nDuration: " + model.FormatDuration(job.Duration)
	}
	n.bot.editStatus(job, text)
}

func (n *notifier) Done(job model.Job) {
	if job.ChatID == 0 {
		return
	}

	if n.bot.orch.DeliveryTooLarge(job) {
		n.bot.editStatus(job, fmt.Sprintf(
			"✅ Done, but the file is too large to send here (%s, limit %s).\nFetch it over the API instead.",
			model.FormatSize(job.Filesize), model.FormatSize(n.bot.orch.DeliveryLimit())))
		return
	}

	if err := n.upload(job); err != nil {
		n.bot.logger.Error("uploading artifact", "job", job.ID, "err", err.Error())
		n.bot.editStatus(job, "✅ Done, but sending the file failed: "+err.Error())
		return
	}

	// The upload replaces the status message.
	n.deleteStatus(job)
}

func (n *notifier) Failed(job model.Job) {
	if job.ChatID == 0 {
		return
	}
	text := "❌ Download failed: " + job.Error
	if job.URL != "" {
		text += "\n" + job.URL
	}
	n.bot.editStatus(job, text)
}

func (n *notifier) upload(job model.Job) error {
	caption := job.Title
	if job.Filesize > 0 {
		caption += " (" + model.FormatSize(job.Filesize) + ")"
	}

	var msg tgbotapi.Chattable
	if strings.HasSuffix(job.Filename, ".mp3") {
		audio := tgbotapi.NewAudio(job.ChatID, tgbotapi.FilePath(job.File))
		audio.Caption = caption
		audio.Title = job.Title
		msg = audio
	} else {
		video := tgbotapi.NewVideo(job.ChatID, tgbotapi.FilePath(job.File))
		video.Caption = caption
		video.SupportsStreaming = true
		msg = video
	}

	if _, err := n.bot.api.Send(msg); err != nil {
		return fmt.Errorf("sending artifact: %w", err)
	}
	return nil
}

func (n *notifier) deleteStatus(job model.Job) {
	if job.MessageID == 0 {
		return
	}
	del := tgbotapi.NewDeleteMessage(job.ChatID, job.MessageID)
	if _, err := n.bot.api.Request(del); err != nil {
		n.bot.logger.Error("deleting status message", "job", job.ID, "err", err.Error())
	}
}
