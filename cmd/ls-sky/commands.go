package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/neo"
	"github.com/litescript/ls-sky/internal/report"
	"github.com/litescript/ls-sky/internal/sky"
)

func (a *app) bodiesCmd() *cobra.Command {
	var coords, above bool
	cmd := &cobra.Command{
		Use:   "bodies",
		Short: "List every available body with altitude, azimuth and magnitude",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := a.instant()
			if err != nil {
				return err
			}
			q := a.cfg.Query(at)
			q.ShowCoordinates = coords
			q.AboveHorizonOnly = above

			recs, err := a.engine.GetBodies(q)
			if err != nil {
				return err
			}
			return a.emit(report.ExportBodies(q, at, recs), func(w *report.Writer) {
				w.WriteBodies(q, at, recs)
			})
		},
	}
	cmd.Flags().BoolVar(&coords, "coords", false, "include right ascension and declination")
	cmd.Flags().BoolVar(&above, "above", false, "only bodies above the horizon")
	return cmd
}

func (a *app) bodyCmd() *cobra.Command {
	var span, step time.Duration
	cmd := &cobra.Command{
		Use:   "body <name>",
		Short: "Show one body, optionally with its rise, transit and set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := a.instant()
			if err != nil {
				return err
			}
			q := a.cfg.Query(at)
			q.ShowCoordinates = true

			rec, ok, err := a.engine.GetBodyByName(args[0], q)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("body %q is not available", args[0])
			}

			var win *astro.VisibilityWindow
			if span > 0 {
				w, err := a.engine.BodyWindow(rec.Name, q, at, span, step)
				if err != nil {
					return err
				}
				win = &w
			}

			out := struct {
				sky.PositionRecord
				Window *astro.VisibilityWindow `json:"window,omitempty"`
			}{rec, win}
			return a.emit(out, func(w *report.Writer) {
				w.WriteBody(rec)
				if win != nil {
					fmt.Fprintln(a.out)
					w.WriteWindow(rec.Name, *win)
				}
			})
		},
	}
	cmd.Flags().DurationVar(&span, "window", 0, "search this far ahead for rise and set (e.g. 24h)")
	cmd.Flags().DurationVar(&step, "step", 10*time.Minute, "sampling step for --window")
	return cmd
}

func (a *app) moonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moon",
		Short: "Show the Moon's phase, distance and apparent size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := a.instant()
			if err != nil {
				return err
			}
			phase, err := a.engine.GetMoonPhase(at)
			if err != nil {
				return err
			}
			return a.emit(phase, func(w *report.Writer) { w.WriteMoon(phase) })
		},
	}
}

func (a *app) twilightCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "twilight",
		Short: "Show dawn and dusk for the observer's date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := a.instant()
			if err != nil {
				return err
			}
			obs := a.cfg.Observer
			tw, err := a.engine.GetTwilightTimes(obs.Latitude, obs.Longitude, at, kind)
			if err != nil {
				return err
			}
			return a.emit(tw, func(w *report.Writer) { w.WriteTwilight(tw) })
		},
	}
	cmd.Flags().StringVar(&kind, "type", string(sky.TwilightCivil), "civil, nautical or astronomical")
	return cmd
}

func (a *app) neoCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "neo <file>",
		Short: "Classify near-Earth object approaches from a NeoWs feed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := neo.LoadApproaches(args[0])
			if err != nil {
				return err
			}

			var opts []neo.Option
			if seed != 0 {
				opts = append(opts, neo.WithSeed(seed))
			}
			if a.timeFlag != "" {
				at, err := a.instant()
				if err != nil {
					return err
				}
				opts = append(opts, neo.WithClock(func() time.Time { return at }))
			}
			c := neo.NewClassifier(opts...)

			obs := a.cfg.Observer
			rows := make([]report.NEORow, 0, len(recs))
			for _, r := range recs {
				v, err := c.Classify(r, obs.Latitude, obs.Longitude)
				if err != nil {
					a.logger.Warn("skipping %s: %v", r.Name, err)
					continue
				}
				rows = append(rows, report.NEORow{Approach: r, Visibility: v})
			}
			return a.emit(rows, func(w *report.Writer) { w.WriteNEO(rows) })
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the direction and elevation draw (0 = random)")
	return cmd
}

func (a *app) helioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "helio",
		Short: "Show heliocentric ecliptic positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := a.instant()
			if err != nil {
				return err
			}
			recs, err := a.engine.HeliocentricPositions(at)
			if err != nil {
				return err
			}
			return a.emit(recs, func(w *report.Writer) { w.WriteHelio(at, recs) })
		},
	}
}

func (a *app) metaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meta",
		Short: "Show engine, ephemeris and observer metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := a.engine.Meta(a.cfg.Query(time.Time{}).Observer())
			return a.emit(m, func(w *report.Writer) { w.WriteMeta(m) })
		},
	}
}

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.engine.ClearCache(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Cache cleared")
			return nil
		},
	})
	return cmd
}
