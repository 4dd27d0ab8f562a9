package cli

import (
	"fmt"
	"os"

	"github.com/spaghettifunk/rendercost/engine"
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/scene"
	"github.com/spf13/cobra"
)

// app is the state shared by the commands of one invocation.
type app struct {
	configPath  string
	costVersion string
	logLevel    string
	assetsDir   string

	config *engine.ApplicationConfig
	eng    *engine.Engine
}

// NewRootCommand builds the rendercost command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "rendercost",
		Short: "Estimate the render cost of objects, linksets and avatars",
		Long: `rendercost scores how expensive objects, linksets and avatars of a
scene are to draw. Scenes are TOML or YAML descriptions; textures declared
with a path take their dimensions from the image on disk.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.loadConfig(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.stop()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "rendercost.toml", "application config file")
	rootCmd.PersistentFlags().StringVar(&a.costVersion, "cost-version", "", "cost version: current, v1/legacy or v2/revised")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.assetsDir, "assets", "", "directory textures and scenes are resolved against")

	rootCmd.AddCommand(
		newPrimCmd(a),
		newLinksetCmd(a),
		newAvatarCmd(a),
		newReportCmd(a),
		newWatchCmd(a),
		newSampleCmd(a),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the flags on top of it.
func (a *app) loadConfig(cmd *cobra.Command) error {
	config, err := engine.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("cost-version") {
		config.CostVersion = a.costVersion
	}
	if flags.Changed("log-level") {
		config.LogLevel = a.logLevel
	}
	if flags.Changed("assets") {
		config.AssetsDir = a.assetsDir
	}
	if err := config.Validate(); err != nil {
		return err
	}
	a.config = config
	return core.SetLogLevel(config.LogLevel)
}

// start creates and initializes the engine on first use.
func (a *app) start() (*engine.Engine, error) {
	if a.eng != nil {
		return a.eng, nil
	}
	eng, err := engine.New(a.config)
	if err != nil {
		return nil, err
	}
	if err := eng.Initialize(); err != nil {
		_ = eng.Shutdown()
		return nil, err
	}
	a.eng = eng
	return eng, nil
}

func (a *app) stop() error {
	if a.eng == nil {
		return nil
	}
	err := a.eng.Shutdown()
	a.eng = nil
	return err
}

// openScene loads a scene and registers its textures. The returned
// function releases them.
func (a *app) openScene(path string) (*engine.Engine, *scene.Scene, func(), error) {
	eng, err := a.start()
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := eng.LoadScene(path)
	if err != nil {
		return nil, nil, nil, err
	}
	ts := eng.TextureSystem()
	if err := ts.LoadScene(s); err != nil {
		return nil, nil, nil, err
	}
	release := func() {
		if err := ts.UnloadScene(s); err != nil {
			core.LogWarn(err.Error())
		}
	}
	return eng, s, release, nil
}
