// Command scion runs a game from an engine config, or exports its project
// as a zip archive.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/phanxgames/scion/config"
	"github.com/phanxgames/scion/editor"
	"github.com/phanxgames/scion/engine"
	"github.com/phanxgames/scion/scene"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath = flag.String("config", "", "engine config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
		prof    = flag.String("profile", "", "write a cpu or mem profile to the current directory")
		export  = flag.String("export", "", "package the project into this zip file and exit")
		edit    = flag.Bool("edit", false, "start with the editor enabled")
	)
	flag.Parse()

	path := config.Path(*cfgPath)
	cfg, err := config.Load(path)
	if err != nil {
		if *cfgPath != "" || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		cfg = config.Defaults()
	}
	if *edit {
		cfg.Editor.Enabled = true
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *prof)
	}

	if *export != "" {
		return exportProject(cfg, *export, log)
	}
	return engine.Run(cfg, log)
}

func exportProject(cfg *config.Config, out string, log *zap.Logger) error {
	if cfg.Script.Project == "" {
		return fmt.Errorf("export needs script.project in %s", config.Path(""))
	}
	p, err := scene.LoadProject(cfg.Script.Project)
	if err != nil {
		return err
	}
	pkg := editor.NewPackager(log.Named("export"))
	if err := pkg.Start(p.Dir, p.Files(), out); err != nil {
		return err
	}
	pkg.Wait()
	if pkg.Failed() {
		return pkg.Err()
	}
	pr := pkg.Progress()
	log.Info("exported", zap.String("project", p.Name), zap.String("archive", out), zap.Int("files", pr.Done))
	return nil
}
