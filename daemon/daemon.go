// Package daemon wires the coordinator to its event sources and the
// control socket, serializing everything onto a single event loop.
package daemon

import (
	"context"
	"errors"
	"log/slog"

	systemd "github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"tether"
	"tether/api"
	"tether/service"
	"tether/settings"
)

// Source delivers hardware/power events. Watch blocks until ctx is
// cancelled; a nil or ctx error return is a clean exit.
type Source interface {
	Watch(ctx context.Context, events chan<- tether.Event) error
}

// request is a control operation queued onto the event loop.
type request struct {
	req   api.Request
	reply chan api.Response
}

// Daemon runs the coordinator.
type Daemon struct {
	coord   *service.Coordinator
	store   *settings.Store
	notify  *Notifier
	sources []Source

	events   chan tether.Event
	requests chan request
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithSources sets the hardware event sources.
func WithSources(srcs ...Source) Option {
	return func(d *Daemon) { d.sources = srcs }
}

// New creates a Daemon around an initialized coordinator.
func New(coord *service.Coordinator, store *settings.Store, notify *Notifier, opts ...Option) *Daemon {
	d := &Daemon{
		coord:    coord,
		store:    store,
		notify:   notify,
		events:   make(chan tether.Event, 16),
		requests: make(chan request),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run starts the event sources, the event loop, and the control server,
// then blocks until ctx is cancelled. The coordinator's shutdown path
// runs before Run returns, so no process or owned interface leaks
// across a daemon restart.
func (d *Daemon) Run(ctx context.Context, socketPath string) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, src := range d.sources {
		src := src
		g.Go(func() error {
			if err := src.Watch(ctx, d.events); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error { return d.loop(ctx) })
	g.Go(func() error { return d.serve(ctx, socketPath) })

	if _, err := systemd.SdNotify(false, systemd.SdNotifyReady); err != nil {
		slog.Debug("systemd notify skipped.", "err", err)
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loop is the single thread of control: every coordinator call happens
// here, so start/stop sequences never overlap.
func (d *Daemon) loop(ctx context.Context) error {
	if d.coord.Config().Autostart {
		slog.Info("Autostart enabled, starting service.")
		if err := d.coord.Start(ctx, true); err != nil {
			slog.Warn("Autostart failed.", "err", err)
		}
	}

	for {
		select {
		case ev := <-d.events:
			d.dispatch(ctx, ev)
		case r := <-d.requests:
			r.reply <- d.handle(ctx, r.req)
		case <-ctx.Done():
			d.coord.Shutdown(context.Background())
			return ctx.Err()
		}
	}
}

func (d *Daemon) dispatch(ctx context.Context, ev tether.Event) {
	slog.Debug("Event received.", "kind", ev.Kind)
	switch ev.Kind {
	case tether.EventPlugIn:
		d.coord.HandlePlugIn(ctx)
	case tether.EventPlugOut:
		d.coord.HandlePlugOut(ctx)
	case tether.EventSuspend:
		d.coord.HandleSuspend(ctx)
	case tether.EventResume:
		d.coord.HandleResume(ctx)
	default:
		slog.Warn("Unknown event kind.", "kind", ev.Kind)
	}
}

func (d *Daemon) handle(ctx context.Context, req api.Request) api.Response {
	switch req.Op {
	case api.OpStatus:
		st := d.coord.Status()
		if d.notify != nil {
			st.LastMessage = d.notify.Last()
		}
		return api.Response{OK: true, Status: &st}

	case api.OpStart:
		return respond(d.coord.Start(ctx, false))

	case api.OpStop:
		return respond(d.coord.Stop(ctx))

	case api.OpToggle:
		return respond(d.coord.Toggle(ctx))

	case api.OpSet:
		if err := d.setSetting(req.Key, req.Value); err != nil {
			return respond(err)
		}
		return respond(d.coord.ReloadConfig())

	case api.OpSettings:
		all, err := d.store.All()
		if err != nil {
			return respond(err)
		}
		return api.Response{OK: true, Settings: all}

	case api.OpReload:
		return respond(d.coord.ReloadConfig())

	default:
		return api.Response{Error: "unknown op " + string(req.Op)}
	}
}

func (d *Daemon) setSetting(key, value string) error {
	for _, known := range settings.KnownKeys() {
		if key == known {
			return d.store.Set(key, value)
		}
	}
	return errors.New("unknown setting " + key)
}

func respond(err error) api.Response {
	if err != nil {
		return api.Response{Error: err.Error()}
	}
	return api.Response{OK: true}
}
