// Package telegram delivers xnotify reports as Telegram messages through the
// Bot API.
package telegram

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	tele "gopkg.in/telebot.v4"

	"github.com/trickstertwo/xnotify"
	"github.com/trickstertwo/xnotify/sink"
)

const sinkName = "telegram"

// MaxMessageLength is the Bot API limit on a message text, in characters.
// Longer texts are cut by Text and end with truncatedMark.
const MaxMessageLength = 4096

const truncatedMark = "\n[truncated]"

// Notifier posts reports to one chat. It is immutable after New and safe for
// concurrent use; the underlying http.Client pools connections.
type Notifier struct {
	cfg     Config
	bot     *tele.Bot
	to      chat
	mention string
	errh    sink.ErrorHandler
	metrics sink.MetricsCollector
}

type Option func(*options)

type options struct {
	client  *http.Client
	errh    sink.ErrorHandler
	metrics sink.MetricsCollector
}

// WithHTTPClient overrides the default client (Config.Timeout, default 10s).
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.client = c } }

// WithErrorHandler sets the handler used by the FailLog policy.
func WithErrorHandler(h sink.ErrorHandler) Option { return func(o *options) { o.errh = h } }

func WithMetrics(m sink.MetricsCollector) Option { return func(o *options) { o.metrics = m } }

// chat is a tele.Recipient for numeric ids and @channel names alike.
type chat string

func (c chat) Recipient() string { return string(c) }

// New validates cfg and builds a Notifier. The bot is created offline: no
// request reaches Telegram until the first report.
func New(cfg Config, opts ...Option) (*Notifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: cfg.Timeout}
	}
	if o.metrics == nil {
		o.metrics = sink.NopMetrics{}
	}

	bot, err := tele.NewBot(tele.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.BotToken,
		Client:  o.client,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("xnotify/telegram: new bot: %w", err)
	}

	return &Notifier{
		cfg:     cfg,
		bot:     bot,
		to:      chat(strings.TrimSpace(cfg.ChatID)),
		mention: mentions(cfg.UsersToTag),
		errh:    o.errh,
		metrics: o.metrics,
	}, nil
}

// Config returns the effective configuration, defaults applied.
func (n *Notifier) Config() Config { return n.cfg }

// Text builds the message body for report:
//
//	codebase: <name> had a error
//	@alice @bob
//	 <report>
//
// The mention line is omitted when no users are configured. Text longer than
// MaxMessageLength is cut so the API does not reject it.
func (n *Notifier) Text(report string) string {
	var b strings.Builder
	b.Grow(len(n.cfg.CodebaseName) + len(n.mention) + len(report) + 32)
	b.WriteString("codebase: ")
	b.WriteString(n.cfg.CodebaseName)
	b.WriteString(" had a error")
	if n.mention != "" {
		b.WriteByte('\n')
		b.WriteString(n.mention)
	}
	b.WriteString(" \n ")
	b.WriteString(report)
	return truncate(b.String(), MaxMessageLength)
}

// truncate keeps the first max runes of s, the last ones given up for
// truncatedMark.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	keep := max - utf8.RuneCountInString(truncatedMark)
	for i := range s {
		if keep == 0 {
			return s[:i] + truncatedMark
		}
		keep--
	}
	return s
}

// Send posts one report and returns the delivery error, if any. It does not
// consult the failure policy.
func (n *Notifier) Send(report string) error {
	start := time.Now()
	_, err := n.bot.Send(n.to, n.Text(report))
	if err != nil {
		err = fmt.Errorf("xnotify/telegram: send message: %w", err)
	}
	n.metrics.Delivered(sinkName, time.Since(start), err)
	return err
}

// Layer builds a notification Layer delivering through n. With no levels the
// configured Levels are used.
func (n *Notifier) Layer(levels ...xnotify.Level) *xnotify.Layer[*Notifier] {
	if len(levels) == 0 {
		levels = n.cfg.Levels
	}
	return xnotify.NewLayer(levels, n, xnotify.DispatchFunc[*Notifier](Dispatch))
}

// Dispatch sends report and applies the configured failure policy.
func Dispatch(n *Notifier, report string) {
	n.cfg.OnFailure.Handle(n.Send(report), n.errh)
}

func mentions(users []string) string {
	tags := make([]string, 0, len(users))
	for _, u := range users {
		u = strings.TrimLeft(strings.TrimSpace(u), "@")
		if u == "" {
			continue
		}
		tags = append(tags, "@"+u)
	}
	return strings.Join(tags, " ")
}
