package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/example/twilio-notifier/internal/app"
	"github.com/example/twilio-notifier/internal/channel"
	"github.com/example/twilio-notifier/internal/config"
	"github.com/example/twilio-notifier/internal/logger"
	"github.com/example/twilio-notifier/internal/models"
	"github.com/example/twilio-notifier/internal/twilio"
	"github.com/example/twilio-notifier/internal/util"
)

const (
	maxRecipients  = 1000
	defaultTimeout = 30 * time.Second
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "send":
		os.Exit(handleSend(os.Args[2:]))
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

func handleSend(args []string) int {
	opts, err := parseSendArgs(args, os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Console logs go to stderr so stdout only carries results.
	log, err := logger.New("twilio-send", "development", cfg.App.LogLevel, zerolog.ConsoleWriter{Out: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	a, err := app.Build(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer a.Close()

	if err := sendAll(ctx, a.Channel, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

type sendOptions struct {
	template    models.SendRequest
	recipients  []string
	concurrency int
	timeout     time.Duration
}

func parseSendArgs(args []string, output io.Writer) (sendOptions, error) {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		opts           sendOptions
		to, media      string
		statusCallback string
		validity       int
		maxPrice       float64
		feedback       bool
	)
	req := &opts.template
	fs.StringVar(&req.Type, "type", models.TypeSMS, "message type: sms, mms, notify or call")
	fs.StringVar(&to, "to", "", "comma separated E.164 recipients")
	fs.StringVar(&req.Content, "text", "", "message body, or the TwiML url for calls")
	fs.StringVar(&req.From, "from", "", "sender number or alphanumeric id")
	fs.StringVar(&media, "media", "", "comma separated media urls (mms)")
	fs.StringVar(&req.ServiceSID, "service-sid", "", "notify service sid")
	fs.BoolVar(&req.AlphanumericSender, "alphanumeric", false, "allow the configured alphanumeric sender")
	fs.StringVar(&statusCallback, "status-callback", "", "status callback url")
	fs.IntVar(&validity, "validity", 0, "message validity period in seconds")
	fs.Float64Var(&maxPrice, "max-price", 0, "maximum price per message")
	fs.BoolVar(&feedback, "feedback", false, "request delivery feedback")
	fs.IntVar(&opts.concurrency, "concurrency", 4, "maximum parallel sends")
	fs.DurationVar(&opts.timeout, "timeout", defaultTimeout, "deadline for each send")

	if err := fs.Parse(args); err != nil {
		return sendOptions{}, err
	}

	// Allow positional: send +NUMBER "message"
	rest := fs.Args()
	if to == "" && len(rest) > 0 && strings.HasPrefix(rest[0], "+") {
		to, rest = rest[0], rest[1:]
	}
	if req.Content == "" && len(rest) > 0 {
		req.Content = strings.Join(rest, " ")
	}

	recipients, err := util.NormalizeE164List(splitList(to), 1, maxRecipients)
	if err != nil {
		return sendOptions{}, fmt.Errorf("--to: %w", err)
	}
	opts.recipients = recipients

	if opts.concurrency < 1 {
		return sendOptions{}, errors.New("--concurrency must be at least 1")
	}
	if opts.timeout <= 0 {
		return sendOptions{}, errors.New("--timeout must be positive")
	}

	req.MediaURLs = splitList(media)
	req.Options.StatusCallback = statusCallback
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "validity":
			req.Options.ValidityPeriod = &validity
		case "max-price":
			price := float32(maxPrice)
			req.Options.MaxPrice = &price
		case "feedback":
			req.Options.ProvideFeedback = &feedback
		}
	})

	return opts, nil
}

// Notifier sends one notification.
type Notifier interface {
	Send(ctx context.Context, notifiable channel.Notifiable, notification channel.Notification) (*twilio.Result, error)
}

type outcome struct {
	to  string
	res *twilio.Result
	err error
}

// sendAll sends the template to every recipient, at most opts.concurrency at
// a time, and prints one line per recipient in input order. Each send is
// bounded by opts.timeout when it is set.
func sendAll(ctx context.Context, notifier Notifier, opts sendOptions, out io.Writer) error {
	outcomes := make([]outcome, len(opts.recipients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)
	for i, to := range opts.recipients {
		g.Go(func() error {
			req := opts.template
			req.To = to
			o := outcome{to: to}

			notifiable, msg, err := channel.FromRequest(req)
			if err == nil {
				o.res, err = send(gctx, notifier, notifiable, msg, opts.timeout)
			}
			o.err = err
			outcomes[i] = o
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			failed++
			fmt.Fprintf(out, "%s\tfailed\t%v\n", o.to, o.err)
		case o.res == nil:
			fmt.Fprintf(out, "%s\tignored\n", o.to)
		default:
			fmt.Fprintf(out, "%s\tsent\t%s\t%s\n", o.to, o.res.SID, o.res.Status)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sends failed", failed, len(outcomes))
	}
	return nil
}

func send(ctx context.Context, notifier Notifier, notifiable channel.Notifiable, msg twilio.Message, timeout time.Duration) (*twilio.Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return notifier.Send(ctx, notifiable, channel.Message(msg))
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `twilio-send: send notifications through Twilio

Commands:
  send --to +NUMBER[,+NUMBER...] --text "message"   Send to one or more recipients
  help                                             Show this help

Send flags:
  --type sms|mms|notify|call   Message type (default sms)
  --from SENDER                Override the configured sender
  --media URL[,URL...]         Media urls, turns the message into an mms
  --service-sid IS...          Notify service sid
  --alphanumeric               Allow the configured alphanumeric sender
  --status-callback URL        Status callback url
  --validity SECONDS           Validity period
  --max-price PRICE            Maximum price
  --feedback                   Request delivery feedback
  --concurrency N              Parallel sends (default 4)
  --timeout DURATION           Deadline for each send (default 30s)

Environment:
  Read from the same TWILIO_* variables and .env file as the server.
  TWILIO_BACKEND=mock sends nothing and prints fake sids.`)
}
