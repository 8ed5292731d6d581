package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	connectorform "github.com/goliatone/go-connectorform"
	"github.com/goliatone/go-connectorform/pkg/alert"
	"github.com/goliatone/go-connectorform/pkg/metadata"
	"github.com/goliatone/go-connectorform/pkg/orchestrator"
	"github.com/goliatone/go-connectorform/pkg/render"
	"github.com/goliatone/go-connectorform/pkg/renderers/tui"
	"github.com/goliatone/go-connectorform/pkg/renderers/vanilla"
)

const (
	remoteTimeout = 30 * time.Second

	enginePongo2     = "pongo2"
	engineGoTemplate = "go-template"
)

// Deps carries what the commands cannot build themselves.
type Deps struct {
	Version string
	// PromptDriver replaces the interactive terminal driver of the tui
	// renderer.
	PromptDriver tui.PromptDriver
}

// Options holds the flag values shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
	Metadata   string
	Values     string
	Format     string
	Schema     string
	Renderer   string
	Output     string
	Payload    string
	Engine     string
	Preset     string
	Theme      string
	Variant    string
	Strict     bool

	config Config
}

// NewRootCmd builds the connectorform command tree.
func NewRootCmd(ctx context.Context, deps Deps) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "connectorform",
		Short:         "Render and submit connector configuration forms",
		Long:          "connectorform renders connector configuration forms from property metadata and builds the payload a connector backend expects.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.applyConfig(cmd); err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), opts.LogLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(slogctx.NewCtx(cmd.Context(), logger))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "YAML file supplying defaults for every flag")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVarP(&opts.Metadata, "metadata", "m", "", "metadata document path or URL")
	flags.StringVarP(&opts.Values, "values", "v", "", "initial values document path or URL")
	flags.StringVar(&opts.Format, "format", "", "metadata format (metadata, openapi); detected when empty")
	flags.StringVar(&opts.Schema, "schema", "", "component schema name for OpenAPI documents")
	flags.StringVar(&opts.Preset, "preset", "", "preset document patching the metadata")

	cmd.AddCommand(
		NewRenderCmd(ctx, deps, opts),
		NewSubmitCmd(ctx, deps, opts),
		NewFieldsCmd(ctx, deps, opts),
		NewLintCmd(ctx, opts),
		NewVersionCmd(ctx, deps),
	)
	cmd.SetContext(ctx)
	return cmd
}

func (o *Options) applyConfig(cmd *cobra.Command) error {
	if o.ConfigPath == "" {
		return nil
	}
	cfg, err := LoadConfig(o.ConfigPath)
	if err != nil {
		return err
	}
	o.config = cfg

	flags := cmd.Flags()
	fill := func(name string, target *string, value string) {
		if value != "" && !flags.Changed(name) {
			*target = value
		}
	}
	fill("log-level", &o.LogLevel, cfg.LogLevel)
	fill("metadata", &o.Metadata, cfg.Metadata)
	fill("values", &o.Values, cfg.Values)
	fill("format", &o.Format, cfg.Format)
	fill("schema", &o.Schema, cfg.Schema)
	fill("preset", &o.Preset, cfg.Preset)
	if flags.Lookup("renderer") != nil {
		fill("renderer", &o.Renderer, cfg.Renderer)
		fill("output", &o.Output, cfg.Output)
		fill("payload", &o.Payload, cfg.Payload)
		fill("engine", &o.Engine, cfg.Engine)
		fill("theme", &o.Theme, cfg.Theme)
		fill("variant", &o.Variant, cfg.Variant)
	}
	if flags.Lookup("strict") != nil && !flags.Changed("strict") && cfg.Strict {
		o.Strict = true
	}
	return nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, oops.In("cli").
			Hint("use debug, info, warn or error").
			Wrapf(err, "invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// request describes the form named by the shared flags.
func (o *Options) request() (orchestrator.Request, error) {
	if strings.TrimSpace(o.Metadata) == "" {
		return orchestrator.Request{}, oops.In("cli").
			Hint("pass --metadata or set metadata in the config file").
			Errorf("metadata document is required")
	}
	metadataSource, err := parseSource(o.Metadata)
	if err != nil {
		return orchestrator.Request{}, err
	}
	req := orchestrator.Request{
		MetadataSource: metadataSource,
		Format:         o.Format,
		SchemaName:     o.Schema,
		Renderer:       o.Renderer,
		ThemeName:      o.Theme,
		ThemeVariant:   o.Variant,
	}
	if strings.TrimSpace(o.Values) != "" {
		if req.ValuesSource, err = parseSource(o.Values); err != nil {
			return orchestrator.Request{}, err
		}
	}
	return req, nil
}

func (o *Options) orchestrator(deps Deps) (*orchestrator.Orchestrator, error) {
	registry := render.NewRegistry()

	htmlOptions := []vanilla.Option{vanilla.WithInlineStylesheet(), vanilla.WithInlineRuntime()}
	switch o.Engine {
	case "", enginePongo2:
	case engineGoTemplate:
		htmlOptions = append(htmlOptions, vanilla.WithGoTemplateEngine())
	default:
		return nil, oops.In("cli").
			Hint("use "+enginePongo2+" or "+engineGoTemplate).
			Errorf("unknown template engine %q", o.Engine)
	}
	html, err := vanilla.New(htmlOptions...)
	if err != nil {
		return nil, oops.In("cli").Wrapf(err, "create vanilla renderer")
	}
	registry.MustRegister(html)

	tuiOptions := []tui.Option{tui.WithOutputFormat(tui.ParseOutputFormat(o.Payload))}
	if deps.PromptDriver != nil {
		tuiOptions = append(tuiOptions, tui.WithPromptDriver(deps.PromptDriver))
	}
	terminal, err := tui.New(tuiOptions...)
	if err != nil {
		return nil, oops.In("cli").Wrapf(err, "create tui renderer")
	}
	registry.MustRegister(terminal)

	options := []orchestrator.Option{
		orchestrator.WithLoader(connectorform.NewLoader(metadata.WithHTTPFallback(remoteTimeout))),
		orchestrator.WithRegistry(registry),
		orchestrator.WithAlertSink(alert.SlogSink{}),
	}
	if manifests := o.config.Manifests(); len(manifests) > 0 {
		options = append(options, connectorform.WithThemeManifests(o.Theme, o.Variant, manifests...))
	}
	if o.Preset != "" {
		data, err := os.ReadFile(o.Preset)
		if err != nil {
			return nil, oops.In("cli").Hint("check the --preset path").Wrapf(err, "read preset %s", o.Preset)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, oops.In("cli").Wrapf(err, "parse preset %s", o.Preset)
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}
	return orchestrator.New(options...), nil
}

func parseSource(raw string) (metadata.Source, error) {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		src, err := metadata.ParseURLSource(path)
		if err != nil {
			return nil, oops.In("cli").Wrapf(err, "invalid document URL %q", path)
		}
		return src, nil
	}
	return metadata.SourceFromFile(path), nil
}
