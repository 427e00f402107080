package commands

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/assistant"
	"tableflip.dev/taskflow/pkg/clock"
	"tableflip.dev/taskflow/pkg/events"
	"tableflip.dev/taskflow/pkg/logging"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
)

// env is everything a command needs, bound to the signed-in identity.
type env struct {
	Settings *store.Settings
	Log      zerolog.Logger
	KV       store.KV
	Bus      *events.Bus
	Clock    clock.Clock
	IDs      clock.IDGenerator

	// Root is unscoped and holds the account buckets.
	Root      *store.Accessor
	Store     *store.Accessor
	Stores    *app.Stores
	Analytics *analytics.Aggregator
	User      *record.User
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	cmd.SilenceUsage = true
	s, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.New(logging.Options{Level: s.LogLevel, Out: cmd.ErrOrStderr()})
	kv, err := store.Open(s)
	if err != nil {
		return nil, err
	}

	e := &env{
		Settings: s,
		Log:      log,
		KV:       kv,
		Bus:      events.NewBus(16),
		Clock:    clock.RealClock{},
		IDs:      clock.UUIDGenerator{},
	}
	e.Root = store.NewAccessor(kv, e.Bus, log)
	accounts := app.New(app.Deps{Store: e.Root, Clock: e.Clock, IDs: e.IDs})
	if e.User, err = accounts.Users.Current(cmdContext(cmd)); err != nil {
		_ = kv.Close()
		return nil, err
	}
	e.bind(accounts)
	if err := e.Stores.Todos.Migrate(cmdContext(cmd)); err != nil {
		e.Log.Warn().Err(err).Msg("legacy todo buckets left as is")
	}
	if err := e.Stores.Reminders.Migrate(cmdContext(cmd)); err != nil {
		e.Log.Warn().Err(err).Msg("legacy reminder buckets left as is")
	}
	return e, nil
}

// bind scopes the stores to the configured user, else the signed-in one.
func (e *env) bind(accounts *app.Stores) {
	identity := e.User.IdentityKey()
	if u := strings.TrimSpace(e.Settings.User); u != "" {
		identity = u
	}
	e.Store = e.Root.ForIdentity(identity)
	e.Stores = accounts.ForIdentity(identity)
	e.Analytics = analytics.New(e.Store, e.Clock)
	e.Analytics.WeekStart = e.Settings.FirstWeekday()
	e.Analytics.SeriesDays = e.Settings.SeriesDays
	e.Log.Debug().Str("identity", identity).Str("backend", string(e.Settings.Backend())).Msg("store bound")
}

func (e *env) Assistant() *assistant.Assistant {
	a := assistant.New(e.Stores, e.Analytics, e.Log)
	a.BotName = e.Settings.BotName
	a.Name = e.User.DisplayName()
	return a
}

func (e *env) Close() error {
	return e.KV.Close()
}

func (e *env) printer(cmd *cobra.Command, showID bool) *printers.PrettyPrint {
	return &printers.PrettyPrint{ShowID: showID, Out: cmd.OutOrStdout()}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

// finish prints secondary-write warnings and reports err the way --json asks.
func finish(cmd *cobra.Command, err error, warnings ...string) error {
	if len(warnings) > 0 {
		(&printers.PrettyPrint{Out: cmd.ErrOrStderr()}).Warnings(warnings...)
	}
	return output.HandleError(err)
}
