package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/glyphterm/glyph/internal/capability"
	"github.com/glyphterm/glyph/internal/config"
	"github.com/glyphterm/glyph/internal/crash"
	"github.com/glyphterm/glyph/internal/logging"
	"github.com/glyphterm/glyph/internal/modules"
	"github.com/glyphterm/glyph/internal/platform"
	"github.com/glyphterm/glyph/internal/plugin"
	"github.com/glyphterm/glyph/internal/script"
	"github.com/glyphterm/glyph/internal/store"
	"github.com/glyphterm/glyph/internal/version"
	"go.uber.org/zap"
)

func main() {
	configFlag := flag.String("config", "", "configuration script path (used exclusively; missing file is an error)")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	logDev := flag.Bool("log-dev", false, "human-readable console logging")
	pluginInstall := flag.String("plugin-install", "", "install a plugin from a manifest file and exit")
	pluginRemove := flag.String("plugin-remove", "", "uninstall a plugin by name and exit")
	pluginList := flag.Bool("plugin-list", false, "list installed plugins and exit")
	flag.Parse()

	opts := config.LoadOptionsOrDefault()
	if *configFlag != "" {
		opts.ConfigFile = *configFlag
	}
	if *logLevel != "" {
		opts.LogLevel = *logLevel
	}

	log, err := logging.New(logging.Config{
		Level:       opts.LogLevel,
		Development: opts.LogDev || *logDev,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging configuration: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync()

	cmd := pluginArgs{
		install: *pluginInstall,
		remove:  *pluginRemove,
		list:    *pluginList,
	}
	os.Exit(run(log, opts, cmd))
}

type pluginArgs struct {
	install string
	remove  string
	list    bool
}

// run performs the whole bootstrap under the crash reporter's hook and
// returns the process exit code.
func run(log *logging.Logger, opts *config.Options, cmd pluginArgs) int {
	reporter := crash.NewReporter(config.CrashDir(), version.Host)
	reporter.Install()
	defer crash.Recover()

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = config.DataDir()
	}
	pluginDir := opts.PluginDir
	if pluginDir == "" {
		pluginDir = config.PluginDir(dataDir)
	}

	st, err := store.Open(config.StorePath(dataDir), log)
	if err != nil {
		// The store is optional infrastructure; the terminal stays usable
		// without cross-process state.
		log.Warn("shared data store unavailable", zap.Error(err))
		st = nil
	}

	mgr, err := plugin.NewManager(pluginDir, version.HostVersion(), log)
	if err != nil {
		log.Error("plugin manager unavailable", zap.Error(err))
		return 1
	}

	if code, done := pluginCommand(log, mgr, cmd); done {
		return code
	}

	ctx := context.Background()

	mods := capability.Resolve(platform.Current(), modules.Builtins(modules.Deps{
		Log:   log,
		Store: st,
	}))
	mods = append(mods, mgr.Module())
	reg := capability.NewRegistry(log)

	// Plugin entrypoints evaluate against the built-in surface, then their
	// exports join the final namespace the user script sees.
	bootNS := capability.NewNamespace()
	if err := reg.RegisterAll(bootNS, mods); err != nil {
		log.Error("capability registration failed", zap.Error(err))
		return 1
	}
	bootNS.Seal()
	bootEng, err := script.New(bootNS, log)
	if err != nil {
		log.Error("script engine failed", zap.Error(err))
		return 1
	}

	ns := capability.NewNamespace()
	if err := reg.RegisterAll(ns, mods); err != nil {
		log.Error("capability registration failed", zap.Error(err))
		return 1
	}
	if err := mgr.RegisterEnabled(ctx, ns, reg, bootEng); err != nil {
		log.Error("plugin registration failed", zap.Error(err))
		return 1
	}
	ns.Seal()

	eng, err := script.New(ns, log)
	if err != nil {
		log.Error("script engine failed", zap.Error(err))
		return 1
	}

	res := config.NewLoader(log).LoadAndRun(ctx, eng,
		opts.ConfigFile, config.SearchPaths(), opts.ScriptTimeout)

	switch res.Status {
	case config.StatusLoaded:
		log.Info("configuration loaded",
			zap.String("path", res.SourcePath),
			zap.Int("namespace_size", ns.Len()))
	case config.StatusNotFound:
		log.Info("no configuration found, using defaults")
	case config.StatusLoadError:
		log.Warn("configuration could not be loaded",
			zap.String("path", res.SourcePath),
			zap.String("detail", res.Detail))
	case config.StatusRuntimeError:
		log.Warn("configuration script failed",
			zap.String("path", res.SourcePath),
			zap.String("detail", res.Detail))
	}

	// Script failures leave the terminal usable; only registration-phase
	// conflicts abort the bootstrap.
	return 0
}

func pluginCommand(log *logging.Logger, mgr *plugin.Manager, cmd pluginArgs) (int, bool) {
	switch {
	case cmd.install != "":
		manifest, err := plugin.LoadManifest(cmd.install)
		if err != nil {
			log.Error("invalid manifest", zap.Error(err))
			return 1, true
		}
		rec, err := mgr.Install(manifest)
		if err != nil {
			log.Error("install failed", zap.Error(err))
			return 1, true
		}
		fmt.Printf("installed %s@%s enabled=%v\n",
			rec.Manifest.Name, rec.Manifest.Version, rec.Enabled)
		return 0, true

	case cmd.remove != "":
		if err := mgr.Uninstall(cmd.remove); err != nil {
			log.Error("uninstall failed", zap.Error(err))
			return 1, true
		}
		fmt.Printf("removed %s\n", cmd.remove)
		return 0, true

	case cmd.list:
		for _, rec := range mgr.List() {
			state := "enabled"
			if !rec.Enabled {
				state = "disabled"
			}
			fmt.Printf("%s@%s\t%s\t%s\n",
				rec.Manifest.Name, rec.Manifest.Version, state, rec.Manifest.Compatibility)
		}
		return 0, true
	}
	return 0, false
}
