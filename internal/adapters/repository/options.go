package repository

import "github.com/okian/roas/pkg/logger"

// Option applies a configuration option to the CSVStore.
type Option func(*CSVStore)

// WithFileName overrides the file name used for a source table.
func WithFileName(source, file string) Option {
	return func(s *CSVStore) {
		if file != "" {
			s.files[source] = file
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *CSVStore) {
		if l != nil {
			s.logger = l
		}
	}
}
