package calendar

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
// Primary: usually RemoteSource (API)
// Fallback: FileSource or StaticSource
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Holidays tries the primary source first and falls back on error
func (cs *CompositeSource) Holidays(ctx context.Context, year int) ([]HolidayRecord, error) {
	records, err := cs.primary.Holidays(ctx, year)
	if err == nil {
		return records, nil
	}

	cs.logger.Warn("Primary holiday source failed, falling back",
		zap.Int("year", year),
		zap.Error(err))

	records, fallbackErr := cs.fallback.Holidays(ctx, year)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return records, nil
}

// LoadFallback loads the fallback source (if FileSource)
func (cs *CompositeSource) LoadFallback() error {
	if fs, ok := cs.fallback.(*FileSource); ok {
		if err := fs.Load(); err != nil {
			return fmt.Errorf("failed to load fallback holidays: %w", err)
		}
		cs.logger.Info("Fallback holidays loaded successfully")
	}
	return nil
}
