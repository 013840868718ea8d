// Package app wires the password generator to a preference store and the
// host environment.
package app

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lovincyrus/passwords101/internal/generator"
	"github.com/lovincyrus/passwords101/internal/store"
)

// DefaultSpecialChar prefills the suffix field for sites without settings.
const DefaultSpecialChar = "!"

// Env is everything the host supplies. Build it once at startup.
type Env struct {
	Store store.PreferenceStore
	// InitialURL reports the page the user is on, if the host knows it.
	InitialURL func(ctx context.Context) (string, bool, error)
	// OnError receives failures of store and host calls. Nil logs them.
	OnError func(error)
	Logger  *log.Logger
	// Debounce is the reference code quiet period; zero means 500ms.
	Debounce time.Duration
}

// App exposes password generation and settings management.
type App struct {
	env    Env
	logger *log.Logger
}

// New returns an App for env. A nil store is a programming error.
func New(env Env) *App {
	if env.Store == nil {
		panic("app: Env.Store is required")
	}
	logger := env.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &App{env: env, logger: logger}
}

// Store returns the configured preference store.
func (a *App) Store() store.PreferenceStore {
	return a.env.Store
}

func (a *App) report(err error) {
	if err == nil {
		return
	}
	if a.env.OnError != nil {
		a.env.OnError(err)
		return
	}
	a.logger.Error("passwords101 error", "err", err)
}

// Prefill is what the settings form shows for a site.
type Prefill struct {
	Site        string `json:"site"`
	Enabled     bool   `json:"enabled"`
	SpecialChar string `json:"specialChar"`
	MaxLength   int    `json:"maxLength"`
}

func clearPrefill(site string) Prefill {
	return Prefill{Site: site, SpecialChar: DefaultSpecialChar, MaxLength: generator.NoLimit}
}

// Lookup returns the stored settings for site. Sites without settings, or
// with an empty suffix and no limit, get the cleared form. Store failures
// are reported and also yield the cleared form.
func (a *App) Lookup(ctx context.Context, site string) Prefill {
	found, err := a.env.Store.GetForInput(ctx, site)
	if err != nil {
		a.report(err)
		return clearPrefill(site)
	}
	for _, s := range found {
		if s.SpecialChar == "" && s.Limit() == generator.NoLimit {
			return clearPrefill(site)
		}
		special := s.SpecialChar
		if special == "" {
			special = DefaultSpecialChar
		}
		return Prefill{Site: site, Enabled: true, SpecialChar: special, MaxLength: s.Limit()}
	}
	return clearPrefill(site)
}

// Start resolves the initial site from the host and looks up its settings.
// ok is false when the host has no URL or the lookup failed.
func (a *App) Start(ctx context.Context) (Prefill, bool) {
	if a.env.InitialURL == nil {
		return Prefill{}, false
	}
	url, ok, err := a.env.InitialURL(ctx)
	if err != nil {
		a.report(err)
		return Prefill{}, false
	}
	if !ok || url == "" {
		return Prefill{}, false
	}
	return a.Lookup(ctx, generator.NormalizeSite(url)), true
}

// Sites lists every site with stored settings, sorted.
func (a *App) Sites(ctx context.Context) []string {
	all, err := a.env.Store.GetAll(ctx)
	if err != nil {
		a.report(err)
		return nil
	}
	sites := make([]string, 0, len(all))
	for site := range all {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}

// Suggest returns a known site close to input, for "did you mean" hints.
func (a *App) Suggest(ctx context.Context, input string) (string, bool) {
	return generator.Closest(store.Key(input), a.Sites(ctx))
}

// Request describes one password generation.
type Request struct {
	Site        string
	Master      string
	SpecialChar string
	MaxLength   int
}

// Generate stores the request's settings and derives the password in the
// background. A failed save is reported and does not stop the derivation.
func (a *App) Generate(ctx context.Context, req Request) <-chan generator.Result {
	if req.Site != "" {
		if err := a.env.Store.Save(ctx, req.Site, req.SpecialChar, req.MaxLength); err != nil {
			a.report(err)
		} else {
			a.logger.Debug("saved site settings", "site", store.Key(req.Site))
		}
	}
	return generator.GenerateAsync(ctx, req.Site, req.Master, req.SpecialChar, req.MaxLength)
}

// ReferenceCodeWatcher returns a debounced watcher using the configured delay.
func (a *App) ReferenceCodeWatcher(notify func(code string)) *generator.ReferenceCodeWatcher {
	return generator.NewReferenceCodeWatcher(a.env.Debounce, notify)
}
