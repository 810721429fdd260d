package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initialises the structured logger. JSON output outside
// development so log aggregation stays parseable.
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(os.Stdout)
	Logger = log

	return log
}

// GetLogger returns the global logger, initialising a default one if needed.
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithService creates a logger with service context.
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}

// WithExtraction creates a logger scoped to one feature extraction call.
func WithExtraction(fixtureID int64, extractionID string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"fixture_id":    fixtureID,
		"extraction_id": extractionID,
	})
}

// WithSignal creates a logger scoped to one signal adapter.
func WithSignal(signal string, fixtureID int64) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"signal":     signal,
		"fixture_id": fixtureID,
	})
}
