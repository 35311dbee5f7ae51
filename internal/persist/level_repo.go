package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brickrun/platformer/internal/level"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RevisionRow represents a row from the level_revisions table, without the
// body.
type RevisionRow struct {
	LevelName string
	Revision  int32
	Checksum  uint64
	Records   int32
	RunID     string
	SavedAt   time.Time
}

// LevelRepo stores every saved version of a level. The previous revision
// is the backup of the current one; nothing is overwritten.
type LevelRepo struct {
	db    *DB
	runID string
}

func NewLevelRepo(db *DB, runID string) *LevelRepo {
	return &LevelRepo{db: db, runID: runID}
}

// ErrNoLevel is returned by Load when a level has no revision.
var ErrNoLevel = errors.New("level has no saved revision")

// Load decodes the latest revision of a level.
func (r *LevelRepo) Load(ctx context.Context, name string) (*level.Level, error) {
	var body string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT body FROM level_revisions
		 WHERE level_name = $1
		 ORDER BY revision DESC LIMIT 1`, name,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load level %s: %w", name, ErrNoLevel)
	}
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", name, err)
	}
	return decode(name, body)
}

// LoadRevision decodes one specific revision.
func (r *LevelRepo) LoadRevision(ctx context.Context, name string, revision int32) (*level.Level, error) {
	var body string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT body FROM level_revisions
		 WHERE level_name = $1 AND revision = $2`, name, revision,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load level %s revision %d: %w", name, revision, ErrNoLevel)
	}
	if err != nil {
		return nil, fmt.Errorf("load level %s revision %d: %w", name, revision, err)
	}
	return decode(name, body)
}

func decode(name, body string) (*level.Level, error) {
	lvl, err := level.Unmarshal([]byte(body))
	if err != nil {
		return lvl, fmt.Errorf("level %s: %w", name, err)
	}
	return lvl, nil
}

// Save appends a new revision unless its checksum equals the latest one.
func (r *LevelRepo) Save(ctx context.Context, name string, lvl *level.Level) error {
	body := level.Marshal(lvl)
	sum := level.Checksum(lvl)

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save level begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		latest  int32
		lastSum int64
	)
	err = tx.QueryRow(ctx,
		`SELECT revision, checksum FROM level_revisions
		 WHERE level_name = $1
		 ORDER BY revision DESC LIMIT 1
		 FOR UPDATE`, name,
	).Scan(&latest, &lastSum)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return fmt.Errorf("save level latest: %w", err)
	case uint64(lastSum) == sum:
		r.db.log.Debug("level unchanged",
			zap.String("level", name),
			zap.Int32("revision", latest))
		return nil
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO level_revisions (level_name, revision, body, checksum, records, run_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		name, latest+1, string(body), int64(sum), int32(lvl.Len()), r.runID,
	); err != nil {
		return fmt.Errorf("save level insert: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("save level commit: %w", err)
	}
	r.db.log.Info("level saved",
		zap.String("level", name),
		zap.Int32("revision", latest+1),
		zap.String("run_id", r.runID))
	return nil
}

// Revisions lists the revisions of a level, newest first.
func (r *LevelRepo) Revisions(ctx context.Context, name string) ([]RevisionRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT level_name, revision, checksum, records, run_id::text, saved_at
		 FROM level_revisions
		 WHERE level_name = $1
		 ORDER BY revision DESC`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RevisionRow
	for rows.Next() {
		var (
			row RevisionRow
			sum int64
		)
		if err := rows.Scan(&row.LevelName, &row.Revision, &sum, &row.Records, &row.RunID, &row.SavedAt); err != nil {
			return nil, err
		}
		row.Checksum = uint64(sum)
		out = append(out, row)
	}
	return out, rows.Err()
}
