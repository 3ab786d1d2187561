package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ajscript/cli/cmd"
	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/lang/host"
	"github.com/ardnew/ajscript/log"
	"github.com/ardnew/ajscript/pkg"
)

// CLI is the top-level command-line interface for ajs.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Set  []host.Binding `help:"Define global NAME as the value of EXPR" placeholder:"NAME=EXPR" sep:"none" short:"D"`
	Path []string       `help:"Search DIR for scripts before the directories in ${pathEnv}" placeholder:"DIR" type:"path"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Run a script"`
	Eval cmd.Eval `cmd:""                    help:"Evaluate an expression"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format a script"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the ajs CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	base := configBase()

	vars := kong.Vars{
		cmd.ConfigIdentifier: base,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version(),
		"pathEnv":            pkg.PathEnv(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logging flags before kong parses anything, so configuration
	// and parse errors are logged the way the user asked.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, base+".json"),
		kong.Configuration(loadTOML(ctx), base+".toml"),
		kong.Configuration(loadScript(ctx), base+".ajs"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx,
		lang.WithLogger(log.Default()),
		lang.WithBindings(cli.Set...),
	)
	ctx = cmd.WithSearchPath(ctx, cli.Path)

	return ktx.Run(ctx, &cli)
}
