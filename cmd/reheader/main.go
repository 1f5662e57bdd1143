// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"

	"go.astrophena.name/reheader/batch"
	"go.astrophena.name/reheader/cli"
	"go.astrophena.name/reheader/config"
	"go.astrophena.name/reheader/logger"
	"go.astrophena.name/reheader/prompt"
)

func main() { cli.Main(new(app)) }

type app struct {
	flags      *flag.FlagSet
	cfg        *config.Config
	configFile string
}

func (a *app) Flags(fs *flag.FlagSet) {
	a.flags = fs
	a.cfg = config.Default()
	a.cfg.Flags(fs)
	fs.StringVar(&a.configFile, "config", "", "Read settings from TOML `file`.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) > 1 {
		return fmt.Errorf("%w: want at most one directory, got %d arguments", cli.ErrInvalidArgs, len(env.Args))
	}

	cfg := a.cfg
	if a.configFile != "" {
		cfg = config.Default()
		if err := config.Load(a.configFile, cfg); err != nil {
			return err
		}
		cfg.Override(a.cfg, a.flags)
		logger.Debug(ctx, "loaded config", slog.String("path", a.configFile))
	}
	if len(env.Args) == 1 {
		cfg.Root = env.Args[0]
	}

	if cfg.Root == "" {
		if !prompt.Interactive(env) {
			return fmt.Errorf("%w: no directory given", cli.ErrInvalidArgs)
		}
		root, err := prompt.ChooseDir(ctx, env.Stdin, env.Stdout, ".")
		if errors.Is(err, prompt.ErrCanceled) {
			env.Logf("Canceled, no files were changed.")
			return nil
		}
		if err != nil {
			return err
		}
		cfg.Root = root
	}

	_, err := batch.Run(ctx, cfg, env.Stdout, cfg.Color.Enabled(env.Color(env.Stdout)))
	return err
}
