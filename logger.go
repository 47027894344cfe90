package main

import (
	"github.com/k0kubun/pp"
	"go.uber.org/zap"
)

// Logger wraps zap's sugared logger with a pretty-printing Debug, handy for
// dumping raw Discord payloads during development.
type Logger struct {
	*zap.SugaredLogger
}

func (l Logger) Debug(args ...interface{}) {
	l.SugaredLogger.Debug("\n" + pp.Sprint(args...))
}

func getLogger(isProd bool) Logger {
	var (
		base *zap.Logger
		err  error
	)

	if isProd {
		pp.ColoringEnabled = false
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}

	if err != nil {
		panic(err)
	}

	return Logger{base.Sugar()}
}
