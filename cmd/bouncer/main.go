package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/niklasfasching/bouncer/css"
	"github.com/niklasfasching/bouncer/soup"
	"github.com/niklasfasching/bouncer/sq"
	"github.com/niklasfasching/bouncer/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// config holds the defaults of flags that are commonly set per environment.
type config struct {
	DB           string  `env:",optional"`
	Rate         float64 `env:",optional"`
	CacheDir     string  `env:",optional"`
	UserAgent    string  `env:",optional"`
	LogLevel     string  `env:",optional"`
	AllowPrivate bool    `env:",optional"`
	Parallel     int     `env:",optional"`
}

type options struct {
	config
	Text   bool
	Attr   string
	Tokens bool
}

var selector = flag.String("s", "", "selector expression")
var recipe = flag.String("f", "", "yaml file mapping query names to selector expressions")
var text = flag.Bool("text", false, "print trimmed text instead of html")
var attr = flag.String("attr", "", "print attribute value instead of html")
var tokens = flag.Bool("tokens", false, "print token chains of the selector expressions and exit")
var pseudos = flag.Bool("pseudos", false, "print registered pseudo classes and exit")
var verbose = flag.Bool("v", false, "debug logging")

func main() {
	log.SetFlags(0)
	c := config{Rate: 2, UserAgent: "bouncer", LogLevel: "info", Parallel: 4}
	if err := util.LoadConfig("BOUNCER_", &c); err != nil {
		log.Fatal(err)
	}
	flag.StringVar(&c.DB, "db", c.DB, "sqlite db to store results in")
	flag.Float64Var(&c.Rate, "rate", c.Rate, "max http requests per second")
	flag.StringVar(&c.CacheDir, "cache", c.CacheDir, "http response cache directory")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] source...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *verbose {
		c.LogLevel = "debug"
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = util.WithLogger(ctx, util.WithLvl(util.ParseLvl(c.LogLevel), zapSink(logger)))

	if *pseudos {
		fmt.Println(strings.Join(css.Default.PseudoNames(), "\n"))
		return
	}
	qs, err := queries(*selector, *recipe)
	if err != nil {
		log.Fatal(err)
	}
	o := options{c, *text, *attr, *tokens}
	if err := run(ctx, os.Stdout, o, qs, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func queries(selector, recipe string) ([]query, error) {
	var qs []query
	if selector != "" {
		s, err := css.Compile(selector)
		if err != nil {
			return nil, err
		}
		qs = append(qs, query{selector, s})
	}
	if recipe != "" {
		rqs, err := readRecipe(recipe)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", recipe, err)
		}
		qs = append(qs, rqs...)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("no selector: use -s or -f")
	}
	return qs, nil
}

func run(ctx context.Context, w io.Writer, o options, qs []query, sources []string) error {
	if o.Tokens {
		return printTokens(w, qs)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources")
	}
	docs, err := load(ctx, o.config, sources)
	if err != nil {
		return err
	}
	var rs []sq.Result
	for i, doc := range docs {
		for _, q := range qs {
			for j, n := range doc.AllSel(q.Selector) {
				rs = append(rs, sq.Result{
					Source:   sources[i],
					Query:    q.Name,
					Selector: q.Selector.String(),
					Position: j,
					Tag:      n.Data,
					HTML:     n.OuterHTML(),
					Text:     n.TrimmedText(),
				})
				fmt.Fprintln(w, line(o, sources, qs, rs[len(rs)-1], n))
			}
		}
	}
	if o.DB == "" {
		return nil
	}
	return record(ctx, o.DB, rs)
}

func line(o options, sources []string, qs []query, r sq.Result, n *soup.Node) string {
	v := r.HTML
	if o.Attr != "" {
		v = n.Attribute(o.Attr)
	} else if o.Text {
		v = r.Text
	}
	var prefix []string
	if len(sources) > 1 {
		prefix = append(prefix, r.Source)
	}
	if len(qs) > 1 {
		prefix = append(prefix, r.Query)
	}
	return strings.Join(append(prefix, v), "\t")
}

func load(ctx context.Context, c config, sources []string) ([]*soup.Node, error) {
	client := newClient(c)
	docs := make([]*soup.Node, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Parallel, 1))
	for i, src := range sources {
		g.Go(func() error {
			doc, err := loadSource(ctx, client, src)
			if err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}
			docs[i] = doc
			return nil
		})
	}
	return docs, g.Wait()
}

func loadSource(ctx context.Context, client *http.Client, src string) (*soup.Node, error) {
	switch {
	case src == "-":
		return soup.Parse(os.Stdin)
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return soup.Load(ctx, client, src)
	default:
		util.Debugf(ctx, "bouncer: reading %s", src)
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return soup.Parse(f)
	}
}

func newClient(c config) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	transport := &http.Transport{DialContext: dialer.DialContext}
	if !c.AllowPrivate {
		transport.DialContext = util.PublicDialContext(dialer)
	}
	t := soup.Transport{
		Transport:  transport,
		RetryCount: 2,
		RetryDelay: time.Second,
		UserAgent:  c.UserAgent,
	}
	if c.Rate > 0 {
		t.RateLimiter = rate.NewLimiter(rate.Limit(c.Rate), 1)
	}
	if c.CacheDir != "" {
		t.Cache = &soup.FileCache{Root: c.CacheDir}
	}
	return t.Client()
}

func record(ctx context.Context, uri string, rs []sq.Result) error {
	db, err := sq.New(ctx, uri, sq.Migrations)
	if err != nil {
		return err
	}
	defer db.Close()
	run := uuid.New().String()
	for i := range rs {
		rs[i].Run = run
	}
	if err := db.RecordContext(ctx, rs...); err != nil {
		return err
	}
	util.Infof(ctx, "bouncer: recorded %d results as run %s", len(rs), run)
	return nil
}

func printTokens(w io.Writer, qs []query) error {
	for _, q := range qs {
		cs, err := css.Tokenize(q.Selector.String())
		if err != nil {
			return err
		}
		fmt.Fprintln(w, q.Name)
		for _, c := range cs {
			fmt.Fprintf(w, "  %s\n", c)
			for _, t := range c {
				fmt.Fprintf(w, "    %-16s %-20q %q\n", t.Symbol, t.Lexeme, t.Captures)
			}
		}
	}
	return nil
}

func newLogger() (*zap.Logger, error) {
	c := zap.NewDevelopmentConfig()
	c.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	c.DisableStacktrace = true
	return c.Build()
}

func zapSink(l *zap.Logger) util.Sink {
	l = l.WithOptions(zap.AddCallerSkip(4))
	return func(lvl util.Lvl, msg string) {
		switch lvl {
		case util.DEBUG:
			l.Debug(msg)
		case util.INFO:
			l.Info(msg)
		case util.WARN:
			l.Warn(msg)
		default:
			l.Error(msg)
		}
	}
}
