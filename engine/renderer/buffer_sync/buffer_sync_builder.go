package buffer_sync

import "log/slog"

// BufferSyncBuilderOption is a function that configures a bufferSync.
type BufferSyncBuilderOption func(s *bufferSync)

// WithPartialUploads makes dirty buffers upload only the changed byte range,
// widened to 4-byte boundaries, instead of their full contents.
//
// Parameters:
//   - enabled: true to upload dirty ranges only
//
// Returns:
//   - BufferSyncBuilderOption: a function that applies the partial upload option
func WithPartialUploads(enabled bool) BufferSyncBuilderOption {
	return func(s *bufferSync) {
		s.partialUploads = enabled
	}
}

// WithLogger sets the logger used for allocation, upload and release events.
//
// Parameters:
//   - logger: the logger; nil keeps the engine logger
//
// Returns:
//   - BufferSyncBuilderOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) BufferSyncBuilderOption {
	return func(s *bufferSync) {
		if logger != nil {
			s.logger = logger
		}
	}
}
