package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateRoutedLogger builds a logger that splits entries by severity:
// informational and warning entries go to standard output, error entries and
// above go to standard error. Scripted callers can therefore consume standard
// output while errors stay on the diagnostic stream.
func (factory *LoggerFactory) CreateRoutedLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	return factory.createRoutedLogger(requestedLogLevel, requestedLogFormat,
		zapcore.Lock(zapcore.AddSync(os.Stdout)), zapcore.Lock(zapcore.AddSync(os.Stderr)))
}

func (factory *LoggerFactory) createRoutedLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat, informationSink zapcore.WriteSyncer, diagnosticSink zapcore.WriteSyncer) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoder, encoderCreationError := factory.createEncoder(requestedLogFormat)
	if encoderCreationError != nil {
		return nil, encoderCreationError
	}

	informationEnabler := zap.LevelEnablerFunc(func(candidateLevel zapcore.Level) bool {
		return candidateLevel >= zapLogLevel && candidateLevel < zapcore.ErrorLevel
	})
	diagnosticEnabler := zap.LevelEnablerFunc(func(candidateLevel zapcore.Level) bool {
		return candidateLevel >= zapLogLevel && candidateLevel >= zapcore.ErrorLevel
	})

	routedCore := zapcore.NewTee(
		zapcore.NewCore(encoder.Clone(), informationSink, informationEnabler),
		zapcore.NewCore(encoder.Clone(), diagnosticSink, diagnosticEnabler),
	)
	return zap.New(routedCore), nil
}

func (factory *LoggerFactory) createEncoder(requestedLogFormat LogFormat) (zapcore.Encoder, error) {
	switch requestedLogFormat {
	case LogFormatStructured:
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), nil
	case LogFormatConsole:
		encoderConfiguration := zap.NewDevelopmentEncoderConfig()
		encoderConfiguration.TimeKey = ""
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfiguration), nil
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}
}
