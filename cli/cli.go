package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmplvars/cli/cmd"
	"github.com/ardnew/tmplvars/log"
	"github.com/ardnew/tmplvars/pkg"
	"github.com/ardnew/tmplvars/tmpl"
)

// CLI is the top-level command-line interface for tmplvars.
type CLI struct {
	Log     logConfig     `embed:"" group:"log"   prefix:"log-"`
	Pprof   pprofConfig   `embed:"" group:"pprof" prefix:"pprof-"`
	Extract extractConfig `embed:"" group:"extract"`

	Vars     cmd.Vars     `cmd:"" default:"withargs" help:"Print the variables templates depend on"`
	Render   cmd.Render   `cmd:""                    help:"Render a template against an environment"`
	Funcs    cmd.Funcs    `cmd:""                    help:"List the functions of the selected variant"`
	Variants cmd.Variants `cmd:""                    help:"List template variants"`
	Repl     cmd.Repl     `cmd:""                    help:"Interactive template console"`
	Init     cmd.Init     `cmd:""                    help:"Initialize configuration file"`
	Version  cmd.Version  `cmd:""                    help:"Print version"`
}

// Run executes the tmplvars CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, cmd.Streams{}, dirs{pkg.ConfigDir(), pkg.CacheDir()}, args)
}

func run(
	ctx context.Context,
	exit func(code int),
	streams cmd.Streams,
	d dirs,
	args []string,
) error {
	var cli CLI

	if err := d.mkdirAll(); err != nil {
		return err
	}

	configFilePath := d.configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  d.cache,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars(d.cache)).
		CloneWith(cli.Extract.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that boolean flags like --log-pretty take
	// effect before parsing reports anything.
	cli.Log.scan(args)

	opts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Extract.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(cmd.ConfigSection), configFilePath),
		vars,
	}

	if streams.Out != nil {
		opts = append(opts, kong.Writers(streams.Out, streams.Err))
	}

	parser, err := kong.New(&cli, opts...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with the values that have no
	// TextUnmarshaler, such as TimeLayout.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithStreams(ctx, streams)
	ctx = cmd.WithVariant(ctx, cli.Extract.Variant,
		tmpl.WithLogger(log.Default()),
		tmpl.WithCache(cli.Extract.Cache),
	)

	return ktx.Run(ctx)
}
