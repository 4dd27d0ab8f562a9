package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spaghettifunk/rendercost/engine"
	"github.com/spaghettifunk/rendercost/engine/assets/loaders"
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/testbed"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "report <scene>",
		Short: "Score every avatar and every unworn linkset of a scene",
		Long: `Score every avatar and every linkset no avatar wears. With watch = true in
the config file the report is printed again whenever the scene changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			if a.config.Watch {
				return a.watch(cmd, args[0], f)
			}
			eng, err := a.start()
			if err != nil {
				return err
			}
			s, err := eng.LoadScene(args[0])
			if err != nil {
				return err
			}
			report, err := eng.Evaluate(s)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml or toml")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "watch <scene>",
		Short: "Print the report again whenever the scene or one of its images changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			return a.watch(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml or toml")
	return cmd
}

// watch blocks until the command's context is cancelled or the process is interrupted.
func (a *app) watch(cmd *cobra.Command, scenePath string, f engine.ReportFormat) error {
	eng, err := a.start()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if f == "" {
		eng.Events().Register(core.EVENT_CODE_TEXTURES_RELOADED, a, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
			fmt.Fprintln(out, Subtitle.Render(fmt.Sprintf("reloaded %d textures from %s", data.Count, filepath.Base(data.Path))))
			return true
		})
		defer eng.Events().Unregister(core.EVENT_CODE_TEXTURES_RELOADED, a)
	}
	err = eng.Watch(ctx, scenePath, func(r *engine.Report, err error) {
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), Title.Foreground(Warning).Render(err.Error()))
			return
		}
		if f == "" {
			fmt.Fprintln(out, Subtitle.Render(time.Now().Format(time.TimeOnly)))
		}
		if err := writeReport(out, r, f); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func writeReport(w io.Writer, r *engine.Report, f engine.ReportFormat) error {
	if f != "" {
		return engine.Encode(w, r, f)
	}
	renderReport(w, r)
	return nil
}

func newSampleCmd(a *app) *cobra.Command {
	var (
		seed    uint64
		avatars int
		out     string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a randomly generated scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if avatars < 0 {
				return fmt.Errorf("avatars must not be negative")
			}
			desc := testbed.Generate(seed, avatars)

			sceneFormat := loaders.SceneFormat(format)
			if out == "" {
				return loaders.EncodeScene(cmd.OutOrStdout(), desc, sceneFormat)
			}
			if !cmd.Flags().Changed("scene-format") {
				f, err := loaders.SceneFormatFromPath(out)
				if err != nil {
					return err
				}
				sceneFormat = f
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := loaders.EncodeScene(file, desc, sceneFormat); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d objects, %d avatars, %d textures\n", out, len(desc.Objects), len(desc.Avatars), len(desc.Textures))
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&avatars, "avatars", 3, "number of avatars")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	cmd.Flags().StringVar(&format, "scene-format", string(loaders.SceneFormatTOML), "scene encoding: toml or yaml, derived from --out when set")
	return cmd
}
