package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/usecase"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/mailbox"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/telegram"
)

// step is the position of a chat inside the credential conversation.
type step int

const (
	stepNone step = iota
	stepAwaitingEmail
	stepAwaitingPassword
)

type conversation struct {
	step  step
	email string
}

// Messenger is the slice of the Telegram client the bot uses.
type Messenger interface {
	GetUpdates(ctx context.Context, offset int64) ([]telegram.Update, error)
	SendMessage(chatID int64, text string) error
}

// Runner starts one ingestion run with the collected credentials.
type Runner interface {
	Run(ctx context.Context, creds mailbox.Credentials, notify usecase.NotifyFunc) (usecase.Summary, error)
}

// Exporting pushes stored records to the configured forms.
type Exporting interface {
	ExportAll() (usecase.ExportResult, error)
}

// Bot drives the Telegram front end: a command dispatcher plus a small
// per-chat conversation that collects the Gmail address and app password
// before handing off to the pipeline.
type Bot struct {
	api           Messenger
	registry      *Registry
	runner        Runner
	exporter      Exporting
	conversations map[int64]*conversation
}

func New(api Messenger, registry *Registry, runner Runner, exporter Exporting) *Bot {
	return &Bot{
		api:           api,
		registry:      registry,
		runner:        runner,
		exporter:      exporter,
		conversations: make(map[int64]*conversation),
	}
}

// Poll long-polls for updates until the context is cancelled.
func (b *Bot) Poll(ctx context.Context) {
	var offset int64
	for {
		if ctx.Err() != nil {
			return
		}
		updates, err := b.api.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[Bot] get updates: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}
		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil {
				continue
			}
			b.HandleMessage(ctx, *update.Message)
		}
	}
}

// HandleMessage dispatches one incoming message. Updates are handled
// sequentially, so conversation state needs no locking.
func (b *Bot) HandleMessage(ctx context.Context, msg telegram.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if strings.HasPrefix(text, "/") {
		// Any command abandons a half-finished credential conversation.
		delete(b.conversations, chatID)
		b.handleCommand(ctx, chatID, text)
		return
	}

	conv, ok := b.conversations[chatID]
	if !ok {
		b.send(chatID, "Use /parse_emails to start, /export to push records to the forms, or /status to check the current run.")
		return
	}

	switch conv.step {
	case stepAwaitingEmail:
		if !strings.Contains(text, "@") {
			b.send(chatID, "That does not look like an email address. Send your Gmail address.")
			return
		}
		conv.email = text
		conv.step = stepAwaitingPassword
		b.send(chatID, "Now send your Gmail app password.")
	case stepAwaitingPassword:
		creds := mailbox.Credentials{Email: conv.email, Password: text}
		delete(b.conversations, chatID)
		b.startRun(ctx, chatID, creds)
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, text string) {
	// Strip bot-name suffixes like /status@mybot.
	command := text
	if i := strings.IndexAny(command, "@ "); i >= 0 {
		command = command[:i]
	}

	switch command {
	case "/start":
		b.send(chatID, "Hi! I sort a Gmail inbox into automated and human-authored mail.\n"+
			"/parse_emails - scan the inbox\n"+
			"/export - push stored records to the forms\n"+
			"/status - show the current run")
	case "/parse_emails":
		if b.registry.Get(chatID).Status == RunRunning {
			b.send(chatID, "A run is already in progress for this chat.")
			return
		}
		b.conversations[chatID] = &conversation{step: stepAwaitingEmail}
		b.send(chatID, "Send your Gmail address.")
	case "/export":
		result, err := b.exporter.ExportAll()
		if err != nil {
			b.send(chatID, "Export failed: "+err.Error())
			return
		}
		b.send(chatID, formatExportResult(result))
	case "/status":
		b.send(chatID, formatRunInfo(b.registry.Get(chatID)))
	default:
		b.send(chatID, "Unknown command. Try /start.")
	}
}

// startRun launches the pipeline in the background and reports its
// outcome back into the chat.
func (b *Bot) startRun(ctx context.Context, chatID int64, creds mailbox.Credentials) {
	if !b.registry.Start(chatID) {
		b.send(chatID, "A run is already in progress for this chat.")
		return
	}
	b.send(chatID, "Starting. I will post progress here.")

	notify := func(text string) { b.send(chatID, text) }
	go func() {
		_, err := b.runner.Run(ctx, creds, notify)
		if err != nil {
			b.registry.Fail(chatID, err.Error())
			b.send(chatID, "Run failed: "+err.Error())
			return
		}
		b.registry.Finish(chatID)
	}()
}

func (b *Bot) send(chatID int64, text string) {
	if err := b.api.SendMessage(chatID, text); err != nil {
		log.Printf("[Bot] send to %d: %v", chatID, err)
	}
}

func formatRunInfo(info RunInfo) string {
	switch info.Status {
	case RunRunning:
		return "Run in progress since " + info.StartedAt.Format("15:04:05") + "."
	case RunFailed:
		return "Last run failed: " + info.Reason
	default:
		return "No run in progress."
	}
}

func formatExportResult(result usecase.ExportResult) string {
	if result.Failed == 0 {
		return fmt.Sprintf("Export finished: %d records submitted.", result.Submitted)
	}
	return fmt.Sprintf("Export finished: %d submitted, %d failed.", result.Submitted, result.Failed)
}
