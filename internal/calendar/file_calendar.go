package calendar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FileSource implements Source using a local text file
type FileSource struct {
	filePath string
	logger   *zap.Logger
	mu       sync.RWMutex
	records  []HolidayRecord
	loaded   bool
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
	}
}

// Load loads holiday records from file
func (fs *FileSource) Load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	records, err := fs.parse(file)
	if err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	fs.mu.Lock()
	fs.records = records
	fs.loaded = true
	fs.mu.Unlock()

	fs.logger.Info("Holiday file loaded",
		zap.String("file", fs.filePath),
		zap.Int("holidays", len(records)))

	return nil
}

func (fs *FileSource) parse(r io.Reader) ([]HolidayRecord, error) {
	scanner := bufio.NewScanner(r)
	records := []HolidayRecord{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: MM-DD CC[,CC...] name
		// Example: 12-25 US,UK,FR Christmas Day
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 3 {
			fs.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		monthDay := parts[0]
		if _, _, err := ParseMonthDay(monthDay); err != nil {
			fs.logger.Warn("Failed to parse month-day", zap.String("date", monthDay), zap.Error(err))
			continue
		}

		countries := []string{}
		for _, code := range strings.Split(parts[1], ",") {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code != "" {
				countries = append(countries, code)
			}
		}
		if len(countries) == 0 {
			fs.logger.Warn("Holiday without countries", zap.String("line", line))
			continue
		}

		name := strings.TrimSpace(parts[2])
		if name == "" {
			fs.logger.Warn("Holiday without name", zap.String("line", line))
			continue
		}

		records = append(records, HolidayRecord{
			Name:      name,
			MonthDay:  monthDay,
			Countries: countries,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Holidays returns the loaded records; the year is ignored
func (fs *FileSource) Holidays(ctx context.Context, year int) ([]HolidayRecord, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if !fs.loaded {
		return nil, fmt.Errorf("holiday file not loaded: %s", fs.filePath)
	}

	return copyRecords(fs.records), nil
}
