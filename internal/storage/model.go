package storage

import (
	"sync/atomic"

	"github.com/iamNilotpal/ignite/internal/logfile"
	"github.com/iamNilotpal/ignite/pkg/options"
	"go.uber.org/zap"
)

// Storage owns the two append-only log files the log-structured engine reads
// and writes: the data log (DataRecords, written by Put) and the index log
// (IndexRecords, the crash-recovery journal written by CreateIndex,
// DeleteIndex, and Put's implicit update path). It is the layer
// internal/engine composes; it never makes indexing decisions itself.
type Storage struct {
	dataLog  *logfile.File
	indexLog *logfile.File
	options  *options.Options
	log      *zap.SugaredLogger
	closed   atomic.Bool
}

// Config encapsulates all the configuration parameters required to initialize a Storage instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
