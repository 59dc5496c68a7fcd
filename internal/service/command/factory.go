package command

import (
	"github.com/sandevgo/recallbot/internal/core"
)

func NewCommands(
	facts FactLister,
	history core.HistoryCache,
	gen core.Generator,
) []core.Command {
	return []core.Command{
		NewFactsCommand(facts),
		NewForgetCommand(facts),
		NewHistoryCommand(history),
		NewSummaryCommand(history, gen),
		NewProvidersCommand(gen),
	}
}
