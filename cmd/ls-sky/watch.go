package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/state"
	"github.com/litescript/ls-sky/internal/ui"
)

func (a *app) watchCmd() *cobra.Command {
	var headless bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the sky live, reporting bodies as they rise and set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Every refresh is a new instant, so cached entries would never be read again.
			engine, err := a.newEngine(nil)
			if err != nil {
				return err
			}

			stateCfg := state.DefaultConfig()
			stateCfg.RefreshInterval = a.cfg.Refresh
			w := &watcher{
				app:    a,
				engine: engine,
				state:  state.NewManager(stateCfg),
			}

			if headless || !isTerminal(os.Stdout) {
				return w.runHeadless(cmd.Context())
			}
			return w.runTUI(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "print events as text instead of the full-screen view")
	return cmd
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type watcher struct {
	*app
	engine *sky.Engine
	state  *state.Manager
}

// fetch computes one frame and records it. helio is nil when it failed.
func (w *watcher) fetch(now time.Time) (helio []sky.HelioRecord, err error) {
	start := time.Now()
	recs, err := w.engine.GetBodies(w.cfg.Query(now))
	if err != nil {
		w.state.Update(nil, time.Since(start), err)
		return nil, err
	}
	helio, herr := w.engine.HeliocentricPositions(now)
	if herr != nil {
		w.logger.Warn("heliocentric positions: %v", herr)
	}
	dur := time.Since(start)
	w.metrics.ObserveQuery("watch_refresh", dur)
	w.state.Update(&state.Frame{Timestamp: now, Bodies: recs}, dur, nil)
	return helio, nil
}

func (w *watcher) runTUI(ctx context.Context) error {
	// The fetch loop lives only as long as the program.
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.New(w.state, w.cfg.Query(time.Time{}).Observer())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(loopCtx))

	// Log lines would tear the alt screen.
	w.logger.SetOutput(io.Discard)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.runFetchLoop(loopCtx, p.Send)
	}()

	_, err := p.Run()
	cancel()
	<-done
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func (w *watcher) runFetchLoop(ctx context.Context, send func(tea.Msg)) {
	w.doFetch(send)

	ticker := time.NewTicker(w.state.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("fetch loop shutting down")
			return
		case <-ticker.C:
			w.doFetch(send)
		}
	}
}

func (w *watcher) doFetch(send func(tea.Msg)) {
	helio, err := w.fetch(time.Now().UTC())
	if err != nil {
		send(ui.ErrorMsg{Error: err})
		return
	}
	send(ui.DataUpdateMsg{Snapshot: w.state.Snapshot(), Helio: helio})
}

// runHeadless prints the sky once, then each horizon crossing as it happens.
func (w *watcher) runHeadless(ctx context.Context) error {
	out := w.writer()

	now := time.Now().UTC()
	if _, err := w.fetch(now); err != nil {
		return err
	}
	snap := w.state.Snapshot()
	out.WriteBodies(w.cfg.Query(now), now, snap.Visible)
	fmt.Fprintln(w.out)

	var lastSeen time.Time
	ticker := time.NewTicker(w.state.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			if _, err := w.fetch(t.UTC()); err != nil {
				w.logger.Error("refresh failed: %v", err)
				continue
			}
			fresh := eventsAfter(w.state.Snapshot().Events, lastSeen)
			if len(fresh) > 0 {
				out.WriteEvents(fresh)
				lastSeen = fresh[len(fresh)-1].Timestamp
			}
		}
	}
}

// eventsAfter returns the chronologically ordered events newer than t.
func eventsAfter(events []state.Event, t time.Time) []state.Event {
	for i, e := range events {
		if e.Timestamp.After(t) {
			return events[i:]
		}
	}
	return nil
}
