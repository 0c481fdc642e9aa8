package util

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Logger fans messages out to sinks. It travels in the context; without one, logging is
// a no-op.
type Logger struct {
	sinks []Sink
	sync.Mutex
}

type Sink func(lvl Lvl, msg string)
type Lvl int

const (
	DEBUG Lvl = iota
	INFO
	WARN
	ERROR
)

type loggerKey struct{}

func Debugf(ctx context.Context, tpl string, args ...any) { Printf(ctx, DEBUG, tpl, args...) }
func Infof(ctx context.Context, tpl string, args ...any)  { Printf(ctx, INFO, tpl, args...) }
func Warnf(ctx context.Context, tpl string, args ...any)  { Printf(ctx, WARN, tpl, args...) }
func Errorf(ctx context.Context, tpl string, args ...any) { Printf(ctx, ERROR, tpl, args...) }

func WithLogger(ctx context.Context, sinks ...Sink) context.Context {
	l, ok := GetLogger(ctx)
	if !ok {
		return context.WithValue(ctx, loggerKey{}, &Logger{sinks: sinks})
	}
	l.Lock()
	l.sinks = append(l.sinks, sinks...)
	l.Unlock()
	return ctx
}

func GetLogger(ctx context.Context) (*Logger, bool) {
	l, ok := ctx.Value(loggerKey{}).(*Logger)
	return l, ok
}

func WithLvl(minLvl Lvl, s Sink) Sink {
	return func(lvl Lvl, msg string) {
		if lvl >= minLvl {
			s(lvl, msg)
		}
	}
}

// WriterSink writes one "LVL msg" line per message to w.
func WriterSink(w io.Writer) Sink {
	return func(lvl Lvl, msg string) { fmt.Fprintf(w, "%s %s\n", lvl, msg) }
}

func Printf(ctx context.Context, lvl Lvl, tpl string, args ...any) {
	if l, ok := GetLogger(ctx); ok {
		msg := fmt.Sprintf(tpl, args...)
		l.Lock()
		defer l.Unlock()
		for _, s := range l.sinks {
			s(lvl, msg)
		}
	}
}

func (l Lvl) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		panic(fmt.Errorf("bad lvl: %d", l))
	}
}

func ParseLvl(l string) Lvl {
	switch strings.ToUpper(l) {
	case "ERROR":
		return ERROR
	case "WARN":
		return WARN
	case "INFO":
		return INFO
	default:
		return DEBUG
	}
}
