package assistant

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tableflip.dev/taskflow/pkg/intent"
)

var helpLines = []string{
	"You can ask me things like:",
	"• help",
	"• open home / calendar / notes / work hours / goals / habits / focus / analytics",
	"",
	"Smart assistant features:",
	"• what should I do today",
	"• summarize my notes",
	"• suggest a focus plan",
	"• how productive was I this week",
	"",
	"✅ Create with chat:",
	"• set reminder today 18:30 call mom",
	"• remind me tomorrow 5pm pay rent",
	"• add reminder 2026-01-20 09:15 meeting",
	"• (If you selected a date in Calendar, reminders without date will save to that selected date)",
	"",
	"• create note Shopping | eggs, milk, bread",
	"• add note Title: content here",
	"",
	"• add todo buy milk",
	"• create todo tomorrow submit assignment",
	"",
	"Focus (Pomodoro):",
	"• open focus",
	"• pomodoro",
	"• focus timer",
	"",
	"Work & Money:",
	"• my work hours / my workings",
	"• my earnings",
	"• my expenses / total expenses",
	"• my profit / net",
	"",
	"Add time filters:",
	"• today / this week / this month / total",
	"Example: “my expenses this month”",
	"",
	"Friendly chat:",
	"• hi / hello",
	"• who am i",
	"• what’s my name",
	"• how are you",
}

// HelpText lists everything the assistant understands. It never changes.
func HelpText() string {
	return strings.Join(helpLines, "\n")
}

func (a *Assistant) fallback() string {
	return strings.Join([]string{
		"I can help with your TaskFlow data, " + a.name() + ".",
		"",
		"Try one of these:",
		"• add todo buy milk",
		"• set reminder 18:30 call mom (uses selected Calendar date)",
		"• create note Shopping | eggs, milk, bread",
		"",
		"Or productivity:",
		"• what should i do today",
		"• summarize my notes",
		"• suggest a focus plan",
		"• how productive was i this week",
		"",
		"Work & money:",
		"• my work hours / my earnings / my expenses / my profit",
		"Add timeframe: today / this week / this month / total",
		"",
		"Type “help” to see everything.",
	}, "\n")
}

func (a *Assistant) social(in intent.SocialChat) string {
	name := a.name()
	switch in.Kind {
	case intent.Greeting:
		return "Hi " + name + "! 🙂\nHow can I help you today?\n\nTry: “set reminder 18:30 call mom” (it uses selected Calendar date)"
	case intent.GreetingTime:
		return cases.Title(language.English).String(in.Text) + ", " + name + "!\nWant a quick plan? Type: “what should I do today”."
	case intent.HowAreYou:
		return "I’m doing great, " + name + ", ready to help.\nYou can also say: “add todo buy milk” or “set reminder 5pm pay rent”."
	case intent.WhoAmI:
		return "You are logged in as: " + name + "\nIf this looks wrong, logout and login again with the correct username."
	case intent.Thanks:
		return "You’re welcome, " + name + ".\nWant to add something quickly? Try: “add todo …” or “set reminder …”."
	case intent.WhoAreYou:
		return "I’m " + a.bot() + ", your TaskFlow assistant.\nI can navigate pages, summarize notes, and create reminders, notes, and todos from chat."
	case intent.SmallTalkInvite:
		return "Sure, " + name + " 🙂\nTell me what you want right now:\n• plan my day\n• summarize my notes\n• add todo buy milk\n• set reminder 18:30 call mom\n• create note Title | content"
	}
	return a.fallback()
}
