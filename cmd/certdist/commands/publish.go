package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/logfields"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/metrics"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/publish"
)

// PublishCmd implements the 'publish' command: replace the serving directory
// with a fresh copy of the built frontend.
type PublishCmd struct {
	Source string `short:"s" help:"Built frontend directory (defaults to the configured frontend dist)"`
	Dest   string `short:"d" help:"Serving directory to replace (defaults to the configured publish dir)"`
	Watch  bool   `short:"w" help:"Keep running and re-publish on source changes"`

	recorder metrics.Recorder
}

func (p *PublishCmd) metrics() metrics.Recorder {
	if p.recorder == nil {
		return metrics.NoopRecorder{}
	}
	return p.recorder
}

func (p *PublishCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	src := p.Source
	if src == "" {
		src = cfg.Paths.FrontendDist
	}
	dst := p.Dest
	if dst == "" {
		dst = cfg.Paths.PublishDir
	}

	if !p.Watch {
		start := time.Now()
		res, err := publish.Publish(src, dst)
		p.metrics().ObservePublishDuration(time.Since(start), err == nil)
		if err != nil {
			return err
		}
		fmt.Println(res.Confirmation())
		return nil
	}

	w, err := publish.NewWatcher(src, dst)
	if err != nil {
		return err
	}
	w.Recorder = p.metrics()
	w.OnPublish = func(res *publish.Result) {
		fmt.Println(res.Confirmation())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("Watching for changes",
		logfields.Source(src),
		logfields.Dest(dst))
	return w.Run(ctx)
}
