package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// GameRow is the columnar form of a GameRecord.
type GameRow struct {
	ID         int32  `parquet:"id"`
	Agent      int32  `parquet:"agent"`
	Seed       uint64 `parquet:"seed"`
	Score      int64  `parquet:"score"`
	Moves      int32  `parquet:"moves"`
	MaxTile    int32  `parquet:"max_tile"`
	Won        bool   `parquet:"won"`
	StartTime  int64  `parquet:"start_time_ms"`
	DurationMS int64  `parquet:"duration_ms"`
}

// MoveRow is the columnar form of a MoveRecord.
type MoveRow struct {
	Game         int32   `parquet:"game"`
	Step         int32   `parquet:"step"`
	Move         string  `parquet:"move,dict"`
	ScoreDelta   int32   `parquet:"score_delta"`
	Score        float64 `parquet:"score"`
	Agent        string  `parquet:"agent,dict"`
	Goroutines   int32   `parquet:"goroutines"`
	DurationUS   int64   `parquet:"duration_us"`
	Depth        int32   `parquet:"depth"`
	Nodes        int64   `parquet:"nodes"`
	Rollouts     int32   `parquet:"rollouts"`
	FullPlayouts int32   `parquet:"full_playouts"`
}

func GameRows(records []GameRecord) []GameRow {
	rows := make([]GameRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, GameRow{
			ID:         int32(r.ID),
			Agent:      int32(r.Agent),
			Seed:       r.Seed,
			Score:      int64(r.Score),
			Moves:      int32(r.Moves),
			MaxTile:    int32(r.MaxTile),
			Won:        r.Won,
			StartTime:  r.StartTime.UnixMilli(),
			DurationMS: r.Duration.Milliseconds(),
		})
	}
	return rows
}

func MoveRows(records []MoveRecord) []MoveRow {
	rows := make([]MoveRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, MoveRow{
			Game:         int32(r.Game),
			Step:         int32(r.Step),
			Move:         r.Move,
			ScoreDelta:   int32(r.ScoreDelta),
			Score:        r.Score,
			Agent:        r.Agent,
			Goroutines:   int32(r.Goroutines),
			DurationUS:   r.Duration.Microseconds(),
			Depth:        int32(r.Depth),
			Nodes:        int64(r.Nodes),
			Rollouts:     int32(r.Rollouts),
			FullPlayouts: int32(r.FullPlayouts),
		})
	}
	return rows
}

// WriteParquet stores game and move records next to the CSV files.
func (w *Writer) WriteParquet(games []GameRecord, moves []MoveRecord) error {
	if err := writeParquet(filepath.Join(w.baseDir, "game_records.parquet"), GameRows(games), "game_record_v1"); err != nil {
		return err
	}
	return writeParquet(filepath.Join(w.baseDir, "move_records.parquet"), MoveRows(moves), "move_record_v1")
}

func writeParquet[T any](outPath string, rows []T, schema string) error {
	// Write to a temp file and rename, so readers never see a partial file.
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}
