package pipeline

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	StageDegrees        = "degrees"
	StageSelectPosition = "select-position"
	StageSelectRank     = "select-rank"
	StageCompact        = "compact"
)

// Stats are the counters one stage run produces.
type Stats struct {
	Stage     string
	LinesRead int64
	Skipped   int64
	Emitted   int64
	// Dropped counts edges filtered out by Compact.
	Dropped  int64
	Users    int64
	Duration time.Duration
}

func (s Stats) log() {
	log.Info().EmbedObject(s).Msg("stage done")
}

func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Str("stage", s.Stage).
		Int64("lines", s.LinesRead).
		Int64("skipped", s.Skipped).
		Int64("emitted", s.Emitted).
		Int64("users", s.Users).
		Dur("took", s.Duration)
	if s.Stage == StageCompact {
		e.Int64("dropped", s.Dropped)
	}
}
