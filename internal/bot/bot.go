// Package bot is the Telegram chat adapter. It turns chat messages
// into jobs, lets the user pick a quality through an inline keyboard,
// and keeps one status message per job current as the job progresses.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yt-fetch-bot/internal/model"
	"yt-fetch-bot/internal/orchestrator"
	"yt-fetch-bot/internal/registry"
)

// API is the slice of the Telegram client the adapter uses. The real
// client satisfies it directly.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Options struct {
	API      API
	Registry *registry.Registry
	Orch     *orchestrator.Orchestrator
	Logger   *slog.Logger
}

type Bot struct {
	api    API
	reg    *registry.Registry
	orch   *orchestrator.Orchestrator
	logger *slog.Logger
}

func New(opts Options) *Bot {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:    opts.API,
		reg:    opts.Registry,
		orch:   opts.Orch,
		logger: logger,
	}
}

// Notifier returns the lifecycle notifier that keeps status messages
// current. Wire it into the orchestrator before starting workers.
func (b *Bot) Notifier() orchestrator.Notifier {
	return &notifier{bot: b}
}

// Run consumes updates until ctx is canceled. The caller owns the
// update channel and closes it on shutdown.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	url, ok := ExtractURL(msg.Text)
	if !ok {
		b.reply(msg.Chat.ID, "Send me a video link (http:// or https://) and I'll fetch it for you.")
		return
	}

	job := b.orch.Submit(url)
	userID := int64(0)
	if msg.From != nil {
		userID = msg.From.ID
	}
	if userID != 0 {
		b.reg.AppendUserJob(userID, job.ID)
	}

	prompt := tgbotapi.NewMessage(msg.Chat.ID, "Pick a quality:")
	prompt.ReplyMarkup = QualityKeyboard(job.ID)
	sent, err := b.api.Send(prompt)
	if err != nil {
		b.logger.Error("sending quality prompt", "job", job.ID, "err", err.Error())
		return
	}

	_ = b.reg.Mutate(job.ID, func(j *model.Job) {
		j.UserID = userID
		j.ChatID = msg.Chat.ID
		j.MessageID = sent.MessageID
	})
	b.logger.Info("job submitted", "job", job.ID, "chat", msg.Chat.ID)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, helpText)
	case "jobs":
		userID := int64(0)
		if msg.From != nil {
			userID = msg.From.ID
		}
		b.reply(msg.Chat.ID, b.renderJobs(userID))
	default:
		b.reply(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	jobID, selector, err := ParseCallback(cb.Data)
	if err != nil {
		b.answer(cb.ID, "That button has expired.")
		return
	}

	if cb.Message != nil {
		// The status message is the one carrying the keyboard; record
		// it before the first lifecycle edit can fire.
		_ = b.reg.Mutate(jobID, func(j *model.Job) {
			j.ChatID = cb.Message.Chat.ID
			j.MessageID = cb.Message.MessageID
		})
	}

	job, err := b.orch.Enqueue(jobID, selector)
	if err != nil {
		b.answer(cb.ID, "This download can no longer be started.")
		return
	}
	b.answer(cb.ID, "Queued: "+job.Quality)

	b.editStatus(job, fmt.Sprintf("⏳ Queued (%s)", job.Quality))
	b.logger.Info("job queued from chat", "job", job.ID, "quality", job.Quality)
}

func (b *Bot) renderJobs(userID int64) string {
	ids := b.reg.UserJobs(userID)
	if len(ids) == 0 {
		return "No jobs yet. Send me a link to start one."
	}
	if len(ids) > jobsListLimit {
		ids = ids[len(ids)-jobsListLimit:]
	}

	var sb strings.Builder
	sb.WriteString("Your recent jobs:\n")
	for i := len(ids) - 1; i >= 0; i-- {
		job, err := b.reg.Get(ids[i])
		if err != nil {
			continue
		}
		sb.WriteString(RenderJobLine(job))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("sending message", "chat", chatID, "err", err.Error())
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Error("answering callback", "err", err.Error())
	}
}

func (b *Bot) editStatus(job model.Job, text string) {
	if job.ChatID == 0 || job.MessageID == 0 {
		return
	}
	edit := tgbotapi.NewEditMessageText(job.ChatID, job.MessageID, text)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("editing status message", "job", job.ID, "err", err.Error())
	}
}

const helpText = `Send me a video link and I'll download it for you.

Commands:
/jobs - show your recent downloads
/help - this message

After you send a link, pick a quality from the keyboard. I'll keep the
message updated while the download runs and send you the file when it
finishes.`
