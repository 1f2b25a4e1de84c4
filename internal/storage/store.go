package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/playback"
)

const (
	metadataFile = "metadata.json"
	finalFile    = "final.csv"
)

// Store keeps run summaries on disk, one directory per run. Only the final
// data set is written; captured history stays in memory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Record struct {
	ID        string           `json:"id"`
	Algorithm string           `json:"algorithm"`
	Category  dataset.Category `json:"category"`
	Outcome   string           `json:"outcome"`
	Snapshots int              `json:"snapshots"`
	SpeedMs   int              `json:"speed_ms"`
	Seed      int64            `json:"seed"`
	ElapsedMs int64            `json:"elapsed_ms"`
	Timestamp time.Time        `json:"timestamp"`
	Error     string           `json:"error,omitempty"`

	Final dataset.DataSet `json:"-"`
}

// NewRecord summarizes a finished run.
func NewRecord(res playback.Result, category dataset.Category, speed time.Duration, seed int64) Record {
	rec := Record{
		Algorithm: res.Name,
		Category:  category,
		Outcome:   res.Outcome.String(),
		Snapshots: res.Snapshots,
		SpeedMs:   int(speed / time.Millisecond),
		Seed:      seed,
		ElapsedMs: res.Elapsed.Milliseconds(),
		Timestamp: time.Now(),
		Final:     res.Final,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	return rec
}

// Save writes rec under a fresh id and returns it.
func (s *Store) Save(rec Record) (string, error) {
	rec.ID = uuid.NewString()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, rec.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", err
	}

	if err := writeFinal(filepath.Join(runDir, finalFile), rec.Final); err != nil {
		return "", err
	}
	return rec.ID, nil
}

var finalHeader = []string{"id", "value", "text", "tag", "x", "y", "row", "col"}

func writeFinal(path string, d dataset.DataSet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(finalHeader); err != nil {
		return err
	}
	for _, e := range d {
		row := []string{e.ID, strconv.FormatFloat(e.Value, 'g', -1, 64), e.Text, string(e.Tag), "", "", "", ""}
		if e.Point != nil {
			row[4] = strconv.FormatFloat(e.Point.X, 'g', -1, 64)
			row[5] = strconv.FormatFloat(e.Point.Y, 'g', -1, 64)
		}
		if e.Cell != nil {
			row[6] = strconv.Itoa(e.Cell.Row)
			row[7] = strconv.Itoa(e.Cell.Col)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	runs := make([]Record, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *rec)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &rec, nil
}

// LoadFinal reads back the final data set of a run. Neighbor lists are not
// stored.
func (s *Store) LoadFinal(runID string) (dataset.DataSet, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, finalFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(finalHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return dataset.DataSet{}, nil
	}

	d := make(dataset.DataSet, 0, len(records)-1)
	for i, record := range records[1:] {
		val, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
		}
		e := dataset.Element{ID: record[0], Value: val, Text: record[2], Tag: dataset.Tag(record[3])}
		if record[4] != "" {
			x, errX := strconv.ParseFloat(record[4], 64)
			y, errY := strconv.ParseFloat(record[5], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("run %s: row %d: bad point", runID, i+1)
			}
			e.Point = &dataset.Point{X: x, Y: y}
		}
		if record[6] != "" {
			row, errR := strconv.Atoi(record[6])
			col, errC := strconv.Atoi(record[7])
			if errR != nil || errC != nil {
				return nil, fmt.Errorf("run %s: row %d: bad cell", runID, i+1)
			}
			e.Cell = &dataset.Cell{Row: row, Col: col}
		}
		d = append(d, e)
	}
	return d, nil
}
