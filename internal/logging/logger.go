package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/mmtreino/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. The returned func flushes
// pending sentry events and closes the log file, call it on shutdown.
func Setup(params LoggerSetupParams) func() {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	sentryOn := false
	if params.SentryEnabled && params.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 0.2,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			sentryOn = true
			logrus.Infoln("sentry set up")
		}
	} else if params.SentryEnabled {
		logrus.Warnln("sentry enabled but SENTRY_DSN not set")
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	var fileWriter io.WriteCloser
	output := io.Writer(os.Stdout)
	if params.LogFileName != "" {
		if !strings.HasSuffix(params.LogFileName, ".log") {
			params.LogFileName += ".log"
		}
		fileWriter = &lumberjack.Logger{
			Filename:   params.LogFileName,
			MaxSize:    20, // megabytes
			MaxBackups: 10,
			LocalTime:  false,
			Compress:   true,
		}
		output = fileWriter
		if params.LogToStdout {
			output = pkg.NewCombinedWriter(os.Stdout, fileWriter)
		}
	}
	logrus.SetOutput(output)

	switch {
	case fileWriter == nil:
		logrus.Debugln("writing logs only to STDOUT")
	case params.LogToStdout:
		logrus.Debugln("writing logs to file and STDOUT")
	default:
		logrus.Debugf("writing logs to %s", params.LogFileName)
	}

	return func() {
		if sentryOn {
			sentry.Flush(2 * time.Second)
		}
		if fileWriter != nil {
			_ = fileWriter.Close()
		}
	}
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
