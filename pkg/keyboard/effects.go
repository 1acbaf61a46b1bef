package keyboard

import (
	"context"

	"github.com/atotto/clipboard"

	"github.com/Akram012388/skillissue-world/pkg/logger"
	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
	"github.com/Akram012388/skillissue-world/pkg/utils"
)

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard uses the OS clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Opener opens URLs.
type Opener interface {
	Open(url string) error
}

// BrowserOpener opens URLs in the default browser.
type BrowserOpener struct{}

// Open implements Opener.
func (BrowserOpener) Open(url string) error {
	return utils.OpenBrowser(url)
}

// Tracker records analytics events.
type Tracker interface {
	RecordEvent(ctx context.Context, slug string, action catalog.Action, agent catalog.Agent) (catalog.Event, error)
}

// Runner executes effects. Nil hooks are skipped.
type Runner struct {
	Clipboard Clipboard
	Opener    Opener
	Tracker   Tracker

	OnFocus    func(focused bool)
	OnNavigate func(path string)
	OnSchedule func(ScheduleSearch)
	OnSearch   func(RunSearch)
}

// Outcome reports what the runner did that the UI may want to reflect.
type Outcome struct {
	Copied bool
	Opened bool
}

// NewRunner returns a runner wired to the system clipboard and browser.
func NewRunner(tracker Tracker) *Runner {
	return &Runner{
		Clipboard: SystemClipboard{},
		Opener:    BrowserOpener{},
		Tracker:   tracker,
	}
}

// Run executes effects in order. Clipboard, browser, and tracking failures are
// logged and swallowed so that one failed effect never blocks the rest.
func (r *Runner) Run(ctx context.Context, effects []Effect) Outcome {
	var out Outcome
	log := logger.G(ctx)

	for _, eff := range effects {
		switch eff := eff.(type) {
		case FocusSearch:
			if r.OnFocus != nil {
				r.OnFocus(true)
			}
		case BlurSearch:
			if r.OnFocus != nil {
				r.OnFocus(false)
			}
		case Copy:
			if r.Clipboard == nil {
				continue
			}
			if err := r.Clipboard.WriteAll(eff.Text); err != nil {
				log.WithError(err).WithField("slug", eff.Slug).Warn("failed to copy install command")
				continue
			}
			out.Copied = true
			r.track(ctx, Track{Slug: eff.Slug, Action: catalog.ActionCopy, Agent: eff.Agent})
		case OpenURL:
			if r.Opener == nil {
				continue
			}
			if err := r.Opener.Open(eff.URL); err != nil {
				log.WithError(err).WithField("url", eff.URL).Warn("failed to open url")
				continue
			}
			out.Opened = true
		case Navigate:
			if r.OnNavigate != nil {
				r.OnNavigate(eff.Path)
			}
		case ScheduleSearch:
			if r.OnSchedule != nil {
				r.OnSchedule(eff)
			}
		case RunSearch:
			if r.OnSearch != nil {
				r.OnSearch(eff)
			}
		case Track:
			r.track(ctx, eff)
		}
	}
	return out
}

func (r *Runner) track(ctx context.Context, eff Track) {
	if r.Tracker == nil {
		return
	}
	if _, err := r.Tracker.RecordEvent(ctx, eff.Slug, eff.Action, eff.Agent); err != nil {
		logger.G(ctx).WithError(err).WithField("slug", eff.Slug).Debug("failed to track event")
	}
}
