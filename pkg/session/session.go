// Package session wires configuration, credentials, the API client,
// and the resolution cache for a single command run.
package session

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/linctl/linctl/pkg/cache"
	"github.com/linctl/linctl/pkg/clierr"
	"github.com/linctl/linctl/pkg/config"
	"github.com/linctl/linctl/pkg/credentials"
	"github.com/linctl/linctl/pkg/dotdir"
	"github.com/linctl/linctl/pkg/linear"
	"github.com/linctl/linctl/pkg/logger"
	"github.com/linctl/linctl/pkg/retry"
)

// Options come from the root command's persistent flags.
type Options struct {
	ConfigDir string
	Profile   string
	Debug     bool
	NoRetry   bool
	NoCache   bool
}

// Session holds everything a command needs beyond its own flags.
type Session struct {
	Config *config.Config
	Log    *slog.Logger

	opts   Options
	client *linear.Client
	cache  *cache.Cache
}

// New loads the effective config (defaults, config.toml, LINCTL_ env
// vars) and builds the logger. The API client and cache are created
// lazily, so commands that never touch the API (config, auth status,
// cache clear) work without a key.
func New(opts Options) (*Session, error) {
	cfg, err := config.LoadEffective(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.Profile == "" {
		opts.Profile = cfg.Profile
	}

	log := logger.Nop()
	if opts.Debug {
		log = logger.New(logger.WithDebug(true))
	}

	return &Session{
		Config: cfg,
		Log:    log,
		opts:   opts,
	}, nil
}

// Profile returns the active credentials profile.
func (s *Session) Profile() string {
	return s.opts.Profile
}

// ConfigDir returns the config directory override, if any.
func (s *Session) ConfigDir() string {
	return s.opts.ConfigDir
}

// Client returns the Linear API client, building it on first use.
func (s *Session) Client() (*linear.Client, error) {
	if s.client != nil {
		return s.client, nil
	}

	mgr, err := credentials.NewManager(s.opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	key, _, err := mgr.ResolveKey(s.opts.Profile)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, clierr.New(clierr.CodeAuth,
			"no API key configured. Run 'linctl auth login' or set %s", credentials.EnvAPIKey)
	}

	client, err := linear.NewClient(linear.ClientConfig{
		APIURL: s.Config.API.URL,
		APIKey: key,
		Retry:  s.retryConfig(),
		Logger: s.Log,
	})
	if err != nil {
		return nil, err
	}

	s.client = client
	return s.client, nil
}

func (s *Session) retryConfig() retry.Config {
	if s.opts.NoRetry {
		return retry.NoRetry()
	}
	return retry.Config{
		MaxRetries:   s.Config.Retry.MaxRetries,
		InitialDelay: time.Duration(s.Config.Retry.InitialDelayMS) * time.Millisecond,
		MaxDelay:     time.Duration(s.Config.Retry.MaxDelayMS) * time.Millisecond,
		Base:         2.0,
	}
}

// Cache returns the resolution cache, opening it on first use. Returns
// nil without error when caching is disabled or the dot directory
// cannot be resolved; resolution then just always hits the API.
func (s *Session) Cache() *cache.Cache {
	if s.opts.NoCache {
		return nil
	}
	if s.cache != nil {
		return s.cache
	}

	target, err := dotdir.NewManager().Target(s.opts.ConfigDir)
	if err != nil || target == "" {
		return nil
	}

	c, err := cache.Open(filepath.Join(target, cache.FileName), cache.DefaultTTL)
	if err != nil {
		s.Log.Warn("opening resolution cache failed", "error", err)
		return nil
	}
	s.cache = c
	return s.cache
}

// Close releases the session's resources.
func (s *Session) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
