package tmdb

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"popcorn-quiz/internal/quiz"
)

const maxExportLine = 1 << 20

// FetchIndex downloads the gzip-compressed daily movie-ID export.
func (c *Client) FetchIndex(ctx context.Context) ([]quiz.IndexEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ExportURL, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("downloading movie id export", "url", c.cfg.ExportURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &quiz.FetchError{Source: "tmdb id export", Key: c.cfg.ExportURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &quiz.FetchError{Source: "tmdb id export", Key: c.cfg.ExportURL, Err: statusError(resp)}
	}

	entries, err := ParseExport(resp.Body, c.logger)
	if err != nil {
		return nil, &quiz.FetchError{Source: "tmdb id export", Key: c.cfg.ExportURL, Err: err}
	}
	return entries, nil
}

// ParseExport reads gzip-compressed newline-delimited JSON. Lines that do not
// decode are logged and skipped.
func ParseExport(r io.Reader, logger *slog.Logger) ([]quiz.IndexEntry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxExportLine)

	entries := make([]quiz.IndexEntry, 0, 1024)
	lineNumber := 0
	skipped := 0
	for scanner.Scan() {
		lineNumber++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry quiz.IndexEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			skipped++
			logger.Warn("skipping malformed export line", "line", lineNumber, "content", string(line), "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	logger.Debug("parsed movie id export", "entries", len(entries), "skipped", skipped)
	return entries, nil
}
