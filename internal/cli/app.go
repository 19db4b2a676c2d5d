// Package cli implements the fintrack-cli operator commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/classify"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/extract"
	"fintrack/internal/log"
	"fintrack/internal/savings"
	"fintrack/internal/services"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Publisher queues raw text for the ingestion worker.
type Publisher interface {
	PublishRawMessage(ctx context.Context, kind core.Kind, text string) (*amqp.RawMessage, error)
	Close() error
}

// PublisherFactory opens a Publisher on demand so commands that never publish
// do not need a broker.
type PublisherFactory func(cfg *config.Config, logger *log.Logger) (Publisher, error)

// App is the fintrack-cli command tree.
type App struct {
	root         *cobra.Command
	out          io.Writer
	now          func() time.Time
	newPublisher PublisherFactory
	cfg          *config.Config
	logger       *log.Logger
}

type Option func(*App)

// WithOutput redirects command output.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithClock overrides the time source for extraction and projections.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithPublisherFactory replaces the AMQP-backed publisher.
func WithPublisherFactory(f PublisherFactory) Option {
	return func(a *App) { a.newPublisher = f }
}

// WithConfig skips loading configuration from the environment.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) { a.cfg = cfg }
}

func NewApp(version string, opts ...Option) *App {
	a := &App{
		out:          os.Stdout,
		now:          time.Now,
		newPublisher: amqpPublisher,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "fintrack-cli",
		Short:         "Categorize, extract and project personal finance data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)
	root.PersistentFlags().String("rules", "", "YAML category rules file (overrides CATEGORY_RULES_FILE)")

	root.AddCommand(a.classifyCmd(), a.extractCmd(), a.projectCmd(), a.publishCmd())
	a.root = root
	return a
}

// Execute runs the command tree with args; nil args means os.Args.
func (a *App) Execute(ctx context.Context, args []string) error {
	if args != nil {
		a.root.SetArgs(args)
	}
	return a.root.ExecuteContext(ctx)
}

func (a *App) init() error {
	if a.cfg == nil {
		// Load .env file for local development (ignore errors in production/docker)
		_ = godotenv.Load()
		a.cfg = config.Load()
	}
	if a.logger == nil {
		// Logs go to stderr so command output stays pipeable.
		a.logger = log.New(log.Config{
			Level:     log.ParseLevel(a.cfg.LogLevel),
			Component: log.ComponentCLI,
			Output:    os.Stderr,
		})
	}
	return nil
}

func (a *App) classifier(cmd *cobra.Command) (*classify.Classifier, error) {
	path, _ := cmd.Flags().GetString("rules")
	if path == "" {
		path = a.cfg.CategoryRulesFile
	}
	return classify.NewFromFile(path)
}

func (a *App) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Print the category for free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.classifier(cmd)
			if err != nil {
				return err
			}
			r := c.Classify(strings.Join(args, " "))
			a.printClassification(r)
			return nil
		},
	}
}

func (a *App) extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <text>",
		Short: "Extract a transaction from SMS or email text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			if !core.Kind(kind).Valid() {
				return fmt.Errorf("kind %q: %w", kind, core.ErrInvalidKind)
			}
			c, err := a.classifier(cmd)
			if err != nil {
				return err
			}
			d := extract.New(c, extract.WithClock(a.now)).Extract(strings.Join(args, " "), core.Kind(kind))
			if d == nil {
				return services.ErrUnparseable
			}
			a.printDraft(*d)
			return nil
		},
	}
	cmd.Flags().String("kind", string(core.KindSMS), "message kind: sms or email")
	return cmd
}

func (a *App) projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the savings needed to reach a goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := amountFlag(cmd, "target", false)
			if err != nil {
				return err
			}
			saved, err := amountFlag(cmd, "saved", true)
			if err != nil {
				return err
			}
			income, err := amountFlag(cmd, "income", true)
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetString("deadline")
			deadline, err := core.ParseDate(raw)
			if err != nil {
				return fmt.Errorf("invalid --deadline %q: want YYYY-MM-DD", raw)
			}

			p := savings.New(savings.WithClock(a.now)).Project(target, saved, deadline.Time, income)
			a.printProjection(p)
			return nil
		},
	}
	cmd.Flags().String("target", "", "goal amount")
	cmd.Flags().String("saved", "0", "amount already saved")
	cmd.Flags().String("deadline", "", "goal deadline (YYYY-MM-DD)")
	cmd.Flags().String("income", "0", "monthly income; 0 means unknown")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("deadline")
	return cmd
}

func (a *App) publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <text>",
		Short: "Queue raw SMS or email text for the ingestion worker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			if !core.Kind(kind).Valid() {
				return fmt.Errorf("kind %q: %w", kind, core.ErrInvalidKind)
			}
			pub, err := a.newPublisher(a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer pub.Close()

			msg, err := pub.PublishRawMessage(cmd.Context(), core.Kind(kind), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s\n", label("Queued:"), msg.ID)
			return nil
		},
	}
	cmd.Flags().String("kind", string(core.KindSMS), "message kind: sms or email")
	return cmd
}

func amqpPublisher(cfg *config.Config, logger *log.Logger) (Publisher, error) {
	if !cfg.AMQPEnabled() {
		return nil, fmt.Errorf("AMQP_URL is not set")
	}
	return amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
}

// amountFlag parses a decimal flag. Zero is accepted only when allowZero is set.
func amountFlag(cmd *cobra.Command, name string, allowZero bool) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() || (!allowZero && d.IsZero()) {
		return decimal.Zero, fmt.Errorf("invalid --%s %q", name, raw)
	}
	return d, nil
}
