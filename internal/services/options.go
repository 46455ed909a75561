package services

import (
	"log/slog"
	"time"

	"quickwinstall/internal/models"
)

// Option configures a store. Each store reads only the options it uses.
type Option func(*storeOptions)

type storeOptions struct {
	logger          *slog.Logger
	defaults        *models.DefaultsDocument
	clock           func() time.Time
	journal         RevisionJournal
	historyLimit    int
	defaultSavePath string
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *storeOptions) { o.logger = logger }
}

// WithDefaults supplies the parsed default.json.
func WithDefaults(defaults *models.DefaultsDocument) Option {
	return func(o *storeOptions) { o.defaults = defaults }
}

func WithClock(clock func() time.Time) Option {
	return func(o *storeOptions) { o.clock = clock }
}

// WithJournal records every successful settings save in journal, keeping at
// most limit revisions.
func WithJournal(journal RevisionJournal, limit int) Option {
	return func(o *storeOptions) {
		o.journal = journal
		o.historyLimit = limit
	}
}

// WithDefaultSavePath sets the output directory written on first run.
func WithDefaultSavePath(path string) Option {
	return func(o *storeOptions) { o.defaultSavePath = path }
}

func buildOptions(opts []Option) storeOptions {
	o := storeOptions{
		clock:        time.Now,
		historyLimit: 20,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.defaults == nil {
		o.defaults = models.BuiltinDefaults()
	}
	return o
}
