// Package report records per-stage pipeline counters as CSV rows, a JSON
// lines run log and optionally postgres rows.
package report

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/yourusername/go-subgraph-bench/pipeline"
)

// StageReport is one stage of one pipeline run.
type StageReport struct {
	RunID     uuid.UUID              `json:"run_id"`
	Stage     string                 `json:"stage"`
	Inputs    []string               `json:"inputs"`
	Params    map[string]interface{} `json:"params,omitempty"`
	LinesRead int64                  `json:"lines_read"`
	Skipped   int64                  `json:"skipped"`
	Emitted   int64                  `json:"emitted"`
	Dropped   int64                  `json:"dropped"`
	Users     int64                  `json:"users"`
	Duration  time.Duration          `json:"duration_ns"`
	CreatedAt time.Time              `json:"created_at"`
}

func FromStats(runID uuid.UUID, s pipeline.Stats, inputs []string, params map[string]interface{}) StageReport {
	return StageReport{
		RunID:     runID,
		Stage:     s.Stage,
		Inputs:    inputs,
		Params:    params,
		LinesRead: s.LinesRead,
		Skipped:   s.Skipped,
		Emitted:   s.Emitted,
		Dropped:   s.Dropped,
		Users:     s.Users,
		Duration:  s.Duration,
		CreatedAt: time.Now().UTC(),
	}
}

var csvHeader = []string{"Timestamp", "RunID", "Stage", "LinesRead", "Skipped", "Emitted", "Dropped", "Users", "Duration"}

// WriteCSV appends one row per report to path. With fresh set the file is
// truncated first. The header is written whenever the file starts empty.
func WriteCSV(path string, fresh bool, reports ...StageReport) error {
	mode := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if fresh {
		mode = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	f, err := os.OpenFile(path, mode, 0644)
	if err != nil {
		return errors.Wrap(err, "open report csv")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stat report csv")
	}

	writer := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := writer.Write(csvHeader); err != nil {
			return errors.Wrap(err, "write csv header")
		}
	}

	for _, r := range reports {
		record := []string{
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.RunID.String(),
			r.Stage,
			strconv.FormatInt(r.LinesRead, 10),
			strconv.FormatInt(r.Skipped, 10),
			strconv.FormatInt(r.Emitted, 10),
			strconv.FormatInt(r.Dropped, 10),
			strconv.FormatInt(r.Users, 10),
			r.Duration.String(),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush report csv")
}

// AppendJSONL appends each report to path as one JSON object per line.
func AppendJSONL(path string, reports ...StageReport) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "open run log")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return errors.Wrapf(err, "encode %s report", r.Stage)
		}
	}
	return errors.Wrap(w.Flush(), "write run log")
}

// LoadReports reads a run log written by AppendJSONL.
func LoadReports(path string) ([]StageReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open run log")
	}
	defer file.Close()

	var reports []StageReport
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var rec StageReport
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, errors.Wrapf(err, "%s:%d", path, line)
		}
		reports = append(reports, rec)
	}
	return reports, scanner.Err()
}
