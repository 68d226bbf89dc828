package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/identity"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/notify"
	"github.com/careerconnect/client/internal/session"
	"github.com/careerconnect/client/internal/store"
	"github.com/careerconnect/client/internal/workitems"
)

// Run wires the application together and blocks until the UI exits.
func Run(ctx context.Context, args []string) error {
	configPath := model.DefaultConfigPath()
	if len(args) > 0 && args[0] != "" {
		configPath = args[0]
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	cache, err := store.NewSQLiteStore(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("opening local cache: %w", err)
	}
	defer cache.Close()

	provider := identity.NewRESTProvider(cfg.Identity.BaseURL, cfg.Identity.APIKey)

	// The session manager is the client's token source, so the two
	// reference each other: the client reads tokens from the manager, the
	// manager registers and fetches profiles through the client. Profile
	// registration itself runs unauthenticated.
	sess := session.NewManager(provider, nil, session.KeyringStore{})
	client := api.NewClient(cfg.Backend.BaseURL, sess)
	sess.SetProfileService(client)

	items := workitems.New(client, workitems.WithCache(cache))
	center := notify.NewCenter(client, cache)

	pollInterval := time.Duration(cfg.Display.NotifyPollSec) * time.Second
	poller := notify.NewPoller(center, pollInterval, func() bool {
		return sess.Current().State == session.Active
	})
	defer poller.Stop()

	program := tea.NewProgram(
		New(sess, items, center, poller, client),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
