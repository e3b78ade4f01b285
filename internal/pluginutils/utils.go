// Package pluginutils bundles the start-up chores of a server plugin: saving
// and merging the bundled configuration, extracting and loading the message
// catalogs, and checking for a newer release in the background.
package pluginutils

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/obentoo/pluginutils/internal/common/config"
	"github.com/obentoo/pluginutils/internal/common/logger"
	"github.com/obentoo/pluginutils/internal/common/version"
	"github.com/obentoo/pluginutils/internal/lang"
	"github.com/obentoo/pluginutils/internal/resources"
	"github.com/obentoo/pluginutils/internal/task"
	"github.com/obentoo/pluginutils/internal/update"
)

const (
	// KeyLanguage is the config key holding the plugin language code
	KeyLanguage = "language"
	// LocaleDir is the folder catalogs are extracted to, both in the
	// resources and in the data folder
	LocaleDir = "locale"
	// DefaultLanguage is the language used when the server reports none
	DefaultLanguage = "eng"
)

// MsgLanguageSelected is logged once a language has been loaded
const MsgLanguageSelected = "language.selected"

// Utils holds the collaborators of one plugin instance
type Utils struct {
	dataDir        string
	resources      fs.FS
	log            *logger.Logger
	serverLanguage string
	versions       update.VersionSource
	agents         update.UserAgentProvider
	pool           *task.Pool
	fetcher        update.Fetcher
	store          *config.Store
}

// Option is a functional option for configuring Utils
type Option func(*Utils)

// WithResources sets the bundled resources
func WithResources(fsys fs.FS) Option {
	return func(u *Utils) {
		u.resources = fsys
	}
}

// WithLogger sets the plugin logger
func WithLogger(l *logger.Logger) Option {
	return func(u *Utils) {
		u.log = l
	}
}

// WithServerLanguage sets the language the host server runs in
func WithServerLanguage(code string) Option {
	return func(u *Utils) {
		if code != "" {
			u.serverLanguage = code
		}
	}
}

// WithVersionSource sets where the running version is read from
func WithVersionSource(v update.VersionSource) Option {
	return func(u *Utils) {
		u.versions = v
	}
}

// WithUserAgent sets the outbound user agent provider
func WithUserAgent(a update.UserAgentProvider) Option {
	return func(u *Utils) {
		u.agents = a
	}
}

// WithPool sets the task pool update checks are submitted to
func WithPool(p *task.Pool) Option {
	return func(u *Utils) {
		u.pool = p
	}
}

// WithFetcher sets the fetcher used for update checks
func WithFetcher(f update.Fetcher) Option {
	return func(u *Utils) {
		u.fetcher = f
	}
}

// New creates Utils for the plugin data folder dataDir and opens its config store
func New(dataDir string, opts ...Option) (*Utils, error) {
	u := &Utils{
		dataDir:        dataDir,
		resources:      resources.FS(),
		log:            logger.Default(),
		serverLanguage: DefaultLanguage,
		versions:       version.Build{},
		agents:         version.Build{},
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.pool == nil {
		u.pool = task.NewPool(task.DefaultWorkers, task.WithLogger(u.log))
	}

	store, err := config.Open(filepath.Join(dataDir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	u.store = store
	return u, nil
}

// DataDir returns the plugin data folder
func (u *Utils) DataDir() string {
	return u.dataDir
}

// Config returns the plugin config store
func (u *Utils) Config() *config.Store {
	return u.store
}

// Pool returns the task pool update checks run on
func (u *Utils) Pool() *task.Pool {
	return u.pool
}

// Logger returns the plugin logger
func (u *Utils) Logger() *logger.Logger {
	return u.log
}

// InitConfig saves the bundled config when the data folder has none. A freshly
// saved config takes the server language.
func (u *Utils) InitConfig() error {
	saved, err := u.store.SaveDefault(u.resources)
	if err != nil {
		return fmt.Errorf("save default config: %w", err)
	}
	if saved {
		return u.ReplaceConfigLanguage()
	}
	return nil
}

// ReplaceConfigLanguage sets the configured language to the server language
func (u *Utils) ReplaceConfigLanguage() error {
	u.store.Set(KeyLanguage, u.serverLanguage)
	u.log.Debug("Config language set to %s", u.serverLanguage)
	return u.store.Save()
}

// UpdateConfig adds bundled keys missing from the config. Existing values are
// kept. Returns the number of values added, nested ones included.
func (u *Utils) UpdateConfig() (int, error) {
	defaults, err := config.LoadDefaults(u.resources)
	if err != nil {
		return 0, err
	}
	added := u.store.SetDefaults(defaults)
	u.log.Debug("Added %d new values to the config", added)
	if err := u.store.Save(); err != nil {
		return added, err
	}
	return added, nil
}

// InitLanguage extracts the bundled catalogs into the data folder, overwriting
// previous copies, and loads the configured language. Unknown languages fall
// back to fallback.
func (u *Utils) InitLanguage(fallback string) (*lang.Language, error) {
	dir := filepath.Join(u.dataDir, LocaleDir)
	if err := u.extractLocales(dir); err != nil {
		return nil, err
	}

	code := u.store.GetString(KeyLanguage, fallback)
	l, err := lang.Load(code, dir, fallback)
	if err != nil {
		return nil, fmt.Errorf("load language %s: %w", code, err)
	}
	u.log.Info("%s", l.Translate(MsgLanguageSelected, l.Name()))
	return l, nil
}

func (u *Utils) extractLocales(dir string) error {
	names, err := fs.Glob(u.resources, path.Join(LocaleDir, "*"+lang.Extension))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, name := range names {
		raw, err := fs.ReadFile(u.resources, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		code := path.Base(name[:len(name)-len(lang.Extension)])
		if err := os.WriteFile(lang.Path(dir, code), raw, 0644); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
	}
	return nil
}

// CheckUpdate submits a background check of updateURL reported through t.
// Collect its completion with Pool().CollectTasks or Pool().Await.
func (u *Utils) CheckUpdate(updateURL string, t update.Translator) (*update.Check, error) {
	opts := []update.CheckerOption{update.WithTranslator(t)}
	if u.fetcher != nil {
		opts = append(opts, update.WithFetcher(u.fetcher))
	}
	checker := update.NewChecker(u.pool, u.log, u.versions, u.agents, opts...)

	check, err := checker.CheckUpdate(updateURL)
	if err != nil {
		return nil, err
	}
	u.log.Debug("User-Agent: %s", check.Request().UserAgent)
	return check, nil
}
