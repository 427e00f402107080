// Package assistant answers classified chat requests from the stores.
package assistant

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/intent"
)

// DefaultBotName is used when no bot name is configured.
const DefaultBotName = "Chinni"

// Reply is the answer to one message. Navigate is set when the reply asks
// the caller to open a page.
type Reply struct {
	Text     string
	Navigate intent.Page
	Warnings []string
}

// Assistant writes through Stores and reads through Analytics.
type Assistant struct {
	Stores    *app.Stores
	Analytics *analytics.Aggregator
	// BotName introduces the assistant.
	BotName string
	// Name is the signed-in user's display name. Empty means "there".
	Name string
	Log  zerolog.Logger
}

// New returns an Assistant over stores and agg with the default bot name.
func New(stores *app.Stores, agg *analytics.Aggregator, log zerolog.Logger) *Assistant {
	return &Assistant{Stores: stores, Analytics: agg, BotName: DefaultBotName, Log: log}
}

func (a *Assistant) name() string {
	if n := strings.TrimSpace(a.Name); n != "" {
		return n
	}
	return "there"
}

func (a *Assistant) bot() string {
	if n := strings.TrimSpace(a.BotName); n != "" {
		return n
	}
	return DefaultBotName
}

// Welcome is the first message of a fresh conversation.
func (a *Assistant) Welcome() string {
	return "Hi " + a.name() + "! I’m " + a.bot() + ".\n\n" + HelpText()
}

// Respond answers in. It never fails: store errors become reply text.
func (a *Assistant) Respond(ctx context.Context, in intent.Intent) Reply {
	switch v := in.(type) {
	case intent.Help:
		return Reply{Text: HelpText()}
	case intent.Navigate:
		return Reply{Text: "Opening " + v.Page.Label() + "…", Navigate: v.Page}
	case intent.CreateReminder:
		return a.createReminder(ctx, v)
	case intent.CreateNote:
		return a.createNote(ctx, v)
	case intent.CreateTodo:
		return a.createTodo(ctx, v)
	case intent.Query:
		return Reply{Text: a.answer(v)}
	case intent.SocialChat:
		return Reply{Text: a.social(v)}
	default:
		return Reply{Text: a.fallback()}
	}
}

// Ask classifies text against the given defaults and answers it.
func (a *Assistant) Ask(ctx context.Context, text string, d intent.Defaults) Reply {
	if d.Today == "" && a.Analytics != nil {
		d.Today = a.Analytics.Today()
	}
	return a.Respond(ctx, intent.Classify(text, d))
}

// Money formats v as dollars with two decimals and digit grouping.
func Money(v float64) string {
	return message.NewPrinter(language.English).Sprintf("$%.2f", v)
}
