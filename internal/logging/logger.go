// Package logging configures the application's logrus logger.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created inside the data directory.
const FileName = "whiteboard.log"

// Formatter writes one line per entry: date, time, source, level, a fresh
// event id, the message and any fields in key order.
type Formatter struct {
	SystemName string
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	t := entry.Time
	fmt.Fprintf(b, "Date: %s, Time: %s, ", t.Format("2006-01-02"), t.Format("15:04:05"))
	fmt.Fprintf(b, "Event Source: %s, ", f.SystemName)
	fmt.Fprintf(b, "Event Type: %s, ", strings.ToUpper(entry.Level.String()))
	fmt.Fprintf(b, "Event ID: %s, ", uuid.NewString())
	fmt.Fprintf(b, "Message: %s", entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := entry.Data[k]
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			fmt.Fprintf(b, ", %s=%v", k, v)
		}
	}

	if entry.HasCaller() {
		fmt.Fprintf(b, ", Location: %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// Options controls where and how much the logger writes.
type Options struct {
	Level string
	// File is the log path. Empty means FileName inside Dir.
	File string
	Dir  string
	// Output replaces the rotated file, mostly for tests.
	Output io.Writer
}

// New builds a logger that writes through a rotating file. The returned
// closer releases the file and must be called on shutdown.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		lvl, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse log level: %w", err)
		}
		level = lvl
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&Formatter{SystemName: "whiteboard-tui"})
	log.SetReportCaller(level >= logrus.DebugLevel)

	if opts.Output != nil {
		log.SetOutput(opts.Output)
		return log, nopCloser{}, nil
	}

	path := opts.File
	if path == "" {
		if opts.Dir == "" {
			return nil, nil, fmt.Errorf("failed to open log: no file or directory given")
		}
		path = filepath.Join(opts.Dir, FileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(file)
	log.WithField("file", path).Debug("logger initialized")

	return log, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
