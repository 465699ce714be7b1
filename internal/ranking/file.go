package ranking

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"popcorn-quiz/internal/quiz"
)

var ErrMalformedRanking = errors.New("malformed ranking file")

const (
	separator     = ';'
	fieldCount    = 3
	emptyPlayer   = "-"
	scoreDecimals = 2
)

// FileStore persists the top-3 ranking as a semicolon-separated file
// without header: player;difficulty label;score.
type FileStore struct {
	path     string
	encoding encoding.Encoding
}

// NewFileStore returns a store for path. A nil enc means UTF-8.
func NewFileStore(path string, enc encoding.Encoding) *FileStore {
	if enc == nil {
		enc = encoding.Nop
	}
	return &FileStore{path: path, encoding: enc}
}

// EncodingByName maps a configured encoding name to its codec.
func EncodingByName(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return encoding.Nop, nil
	case "windows-1252", "cp1252", "ansi":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported ranking encoding %q", name)
	}
}

func Default() quiz.Ranking {
	var ranking quiz.Ranking
	for idx := range ranking {
		ranking[idx] = quiz.RankingEntry{Player: emptyPlayer, Difficulty: emptyPlayer, Score: decimal.Zero}
	}
	return ranking
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the ranking. A missing file yields Default.
func (s *FileStore) Load() (quiz.Ranking, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return quiz.Ranking{}, err
	}
	defer file.Close()

	return Decode(transform.NewReader(file, s.encoding.NewDecoder()))
}

// Save rewrites the whole file through a temp file and rename. Characters the
// file encoding cannot represent are written as its replacement byte.
func (s *FileStore) Save(ranking quiz.Ranking) error {
	var buf bytes.Buffer
	enc := encoding.ReplaceUnsupported(s.encoding.NewEncoder())
	if err := Encode(transform.NewWriter(&buf, enc), ranking); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func Decode(r io.Reader) (quiz.Ranking, error) {
	reader := csv.NewReader(r)
	reader.Comma = separator
	reader.FieldsPerRecord = fieldCount

	records, err := reader.ReadAll()
	if err != nil {
		return quiz.Ranking{}, fmt.Errorf("%w: %v", ErrMalformedRanking, err)
	}
	if len(records) != quiz.RankingSize {
		return quiz.Ranking{}, fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedRanking, quiz.RankingSize, len(records))
	}

	var ranking quiz.Ranking
	for idx, record := range records {
		score, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			return quiz.Ranking{}, fmt.Errorf("%w: row %d score %q", ErrMalformedRanking, idx+1, record[2])
		}
		ranking[idx] = quiz.RankingEntry{
			Player:     record[0],
			Difficulty: record[1],
			Score:      score,
		}
	}
	return ranking, nil
}

// Encode writes w and closes it when it is an io.Closer, so transform
// writers flush.
func Encode(w io.Writer, ranking quiz.Ranking) error {
	writer := csv.NewWriter(w)
	writer.Comma = separator
	for _, entry := range ranking {
		if err := writer.Write([]string{entry.Player, entry.Difficulty, entry.Score.StringFixed(scoreDecimals)}); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	if closer, ok := w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
