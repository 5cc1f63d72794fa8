package app

import (
	"context"
	"fmt"
	"io"

	"github.com/Adda-Baaj/defect-reporter/internal/config"
	"github.com/Adda-Baaj/defect-reporter/internal/domain"
	"github.com/Adda-Baaj/defect-reporter/internal/logger"
	"github.com/Adda-Baaj/defect-reporter/internal/screen"
	"github.com/Adda-Baaj/defect-reporter/internal/tui"
	"github.com/Adda-Baaj/defect-reporter/pkg/defectapi"
	"github.com/Adda-Baaj/defect-reporter/pkg/device"
	"github.com/Adda-Baaj/defect-reporter/pkg/httpclient"
	"github.com/Adda-Baaj/defect-reporter/pkg/publishers"
)

// Streams are the terminal endpoints the reporter talks to.
type Streams struct {
	In       io.Reader
	Out      io.Writer
	Terminal tui.Options
}

// Reporter represents the defect reporter runtime. It owns the terminal session,
// the screen model it drives and the optional submission fan-out.
type Reporter struct {
	cfg     *config.Config
	session *tui.Session
	screen  *screen.Screen
	fanout  *publishers.Fanout
	log     logger.Logger
}

// NewReporter builds a reporter runtime from config.
func NewReporter(ctx context.Context, cfg *config.Config, log logger.Logger, streams Streams) (*Reporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if streams.In == nil || streams.Out == nil {
		return nil, fmt.Errorf("input and output streams are required")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	api := defectapi.New(httpclient.NewRestyClient(cfg.APIBaseURL, cfg.APITimeout))
	log.InfoObj("reports api configured", "api_config", map[string]any{
		"base_url":   cfg.APIBaseURL,
		"timeout_ms": cfg.APITimeout.Milliseconds(),
	})

	session := tui.NewSession(streams.In, streams.Out, streams.Terminal)

	perms := device.NewPermissions(map[device.Permission]string{
		device.PermissionCamera:   cfg.CameraPermission,
		device.PermissionLocation: cfg.LocationPermission,
	}, session)
	camera := device.NewFileCamera(perms, session, cfg.CameraMaxDimension, cfg.CameraQuality)
	locator := newLocator(cfg, perms)
	log.InfoObj("devices configured", "device_config", map[string]any{
		"camera_permission":   cfg.CameraPermission,
		"location_permission": cfg.LocationPermission,
		"location_provider":   cfg.LocationProvider,
		"static_fix":          staticFixSet(cfg),
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	opts := screen.Options{
		API:     api,
		Camera:  camera,
		Locator: locator,
		Alerts:  session,
		Log:     log,

		NotifyTimeout: cfg.APITimeout,
	}
	if fanout != nil {
		opts.Notifier = fanout
	}
	scr, err := screen.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}

	return &Reporter{
		cfg:     cfg,
		session: session,
		screen:  scr,
		fanout:  fanout,
		log:     log,
	}, nil
}

func newLocator(cfg *config.Config, perms device.Permissions) device.Locator {
	if cfg.LocationProvider == config.LocationProviderHTTP {
		return device.NewHTTPLocator(perms, cfg.LocationURL, cfg.APITimeout)
	}
	var fix *domain.Coordinates
	if lat, lon, ok := cfg.StaticFix(); ok {
		fix = &domain.Coordinates{Latitude: lat, Longitude: lon}
	}
	return device.NewStaticLocator(perms, fix)
}

func staticFixSet(cfg *config.Config) bool {
	_, _, ok := cfg.StaticFix()
	return ok
}

// buildFanout returns nil when no publishers file is configured.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		log.DebugObj("submission notifications disabled", "publishers_file", "")
		return nil, nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		log.WarnObj("no enabled publishers; notifications disabled", "publishers_file", cfg.PublishersFile)
		return nil, nil
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})
	return publishers.NewFanout(pubClients, log), nil
}

// Run mounts the screen and serves the terminal session until the user quits, the
// input ends or the context is cancelled.
func (r *Reporter) Run(ctx context.Context) error {
	if r == nil || r.session == nil || r.screen == nil {
		return fmt.Errorf("reporter is not initialized")
	}
	defer r.closeFanout()

	r.log.InfoObj("reporter session starting", "reporter_state", map[string]any{
		"base_url":         r.cfg.APIBaseURL,
		"publishers_count": r.fanout.Size(),
	})

	if err := r.session.Run(ctx, r.screen); err != nil {
		return fmt.Errorf("terminal session: %w", err)
	}

	r.log.InfoObj("reporter session ended", "reporter_state", map[string]any{
		"reports": len(r.screen.Snapshot().Defects),
	})
	return nil
}

// closeFanout releases publisher clients, logging any errors encountered.
func (r *Reporter) closeFanout() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publisher close failed", "error", err.Error())
	}
}
