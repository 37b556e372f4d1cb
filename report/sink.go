package report

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yourusername/go-subgraph-bench/db/models"
	"github.com/yourusername/go-subgraph-bench/pipeline"
)

const defaultBatchSize = 1000

// Sink persists reports and selections to postgres.
type Sink struct {
	DB        *gorm.DB
	BatchSize int
}

func (s *Sink) batchSize() int {
	if s.BatchSize > 0 {
		return s.BatchSize
	}
	return defaultBatchSize
}

// RunRows converts reports into pipeline_runs rows.
func RunRows(reports []StageReport) ([]models.PipelineRun, error) {
	rows := make([]models.PipelineRun, 0, len(reports))
	for _, r := range reports {
		params := datatypes.JSON(`{}`)
		if len(r.Params) > 0 {
			b, err := json.Marshal(r.Params)
			if err != nil {
				return nil, errors.Wrapf(err, "encode %s params", r.Stage)
			}
			params = b
		}
		inputs, err := json.Marshal(r.Inputs)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s inputs", r.Stage)
		}
		rows = append(rows, models.PipelineRun{
			ID:         uuid.New(),
			RunID:      r.RunID,
			Stage:      r.Stage,
			Inputs:     string(inputs),
			Params:     params,
			LinesRead:  r.LinesRead,
			Skipped:    r.Skipped,
			Emitted:    r.Emitted,
			Dropped:    r.Dropped,
			Users:      r.Users,
			DurationMS: r.Duration.Milliseconds(),
			CreatedAt:  r.CreatedAt,
		})
	}
	return rows, nil
}

// SelectionRows lists the selection as selected_users rows, in dense id order.
func SelectionRows(runID uuid.UUID, sel *pipeline.UserSelection) []models.SelectedUser {
	rows := make([]models.SelectedUser, 0, sel.Len())
	for id, user := range sel.Users() {
		rows = append(rows, models.SelectedUser{RunID: runID, DenseID: int64(id), UserID: user})
	}
	return rows
}

// Close releases the connection pool behind DB.
func (s *Sink) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return errors.Wrap(err, "report database handle")
	}
	return sqlDB.Close()
}

func (s *Sink) SaveRun(reports []StageReport) error {
	if len(reports) == 0 {
		return nil
	}
	rows, err := RunRows(reports)
	if err != nil {
		return err
	}
	if err := s.DB.CreateInBatches(&rows, s.batchSize()).Error; err != nil {
		return errors.Wrap(err, "insert pipeline runs")
	}
	log.Debug().Int("rows", len(rows)).Str("run", reports[0].RunID.String()).Msg("saved stage reports")
	return nil
}

func (s *Sink) SaveSelection(runID uuid.UUID, sel *pipeline.UserSelection) error {
	if sel == nil || sel.Len() == 0 {
		return nil
	}
	rows := SelectionRows(runID, sel)
	if err := s.DB.CreateInBatches(&rows, s.batchSize()).Error; err != nil {
		return errors.Wrap(err, "insert selected users")
	}
	log.Debug().Int("rows", len(rows)).Str("run", runID.String()).Msg("saved selection")
	return nil
}

// Publisher sends a run's reports to every configured destination.
type Publisher struct {
	CSVPath  string
	FreshCSV bool
	LogPath  string
	Sink     *Sink
}

// Close closes the database sink, if any.
func (p Publisher) Close() error {
	if p.Sink == nil {
		return nil
	}
	return p.Sink.Close()
}

func (p Publisher) Publish(reports []StageReport, sel *pipeline.UserSelection) error {
	if len(reports) == 0 {
		return nil
	}
	if p.CSVPath != "" {
		if err := WriteCSV(p.CSVPath, p.FreshCSV, reports...); err != nil {
			return err
		}
	}
	if p.LogPath != "" {
		if err := AppendJSONL(p.LogPath, reports...); err != nil {
			return err
		}
	}
	if p.Sink != nil {
		if err := p.Sink.SaveRun(reports); err != nil {
			return err
		}
		if err := p.Sink.SaveSelection(reports[0].RunID, sel); err != nil {
			return err
		}
	}
	return nil
}
