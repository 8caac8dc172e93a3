package maintenance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/folio/internal/database"
)

const valueSequence = "portfolio_value_value_id_seq"

// SequenceStatus compares the value id sequence with the ids in use. The
// sequence drifts when rows are inserted with explicit ids, e.g. after a
// manual data load.
type SequenceStatus struct {
	LastValue int64
	// IsCalled is false until nextval has been used since the last setval;
	// until then nextval hands out LastValue itself.
	IsCalled bool
	MaxID    int64
}

// NextID is the id the next insert will receive.
func (s SequenceStatus) NextID() int64 {
	if s.IsCalled {
		return s.LastValue + 1
	}

	return s.LastValue
}

func (s SequenceStatus) OK() bool {
	return s.NextID() > s.MaxID
}

type Sequences struct {
	db *sql.DB
}

func NewSequences(db *sql.DB) *Sequences {
	return &Sequences{db: db}
}

func (s *Sequences) Verify(ctx context.Context) (SequenceStatus, error) {
	var status SequenceStatus

	query := `SELECT seq.last_value, seq.is_called, (SELECT COALESCE(MAX(value_id), 0) FROM portfolio_value)
		FROM ` + valueSequence + ` seq`

	if err := s.db.QueryRowContext(ctx, query).Scan(&status.LastValue, &status.IsCalled, &status.MaxID); err != nil {
		return status, fmt.Errorf("reading sequence status: %w", database.Classify(err))
	}

	return status, nil
}

// Fix moves the sequence so the next value id is MAX(value_id)+1 and returns
// that id.
func (s *Sequences) Fix(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", database.Classify(err))
	}
	defer tx.Rollback()

	// Blocks concurrent inserts while the sequence is moved.
	if _, err := tx.ExecContext(ctx, "LOCK TABLE portfolio_value IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return 0, fmt.Errorf("locking portfolio_value: %w", database.Classify(err))
	}

	var maxID int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(value_id), 0) FROM portfolio_value").Scan(&maxID); err != nil {
		return 0, fmt.Errorf("reading max value_id: %w", database.Classify(err))
	}

	next := maxID + 1

	if _, err := tx.ExecContext(ctx, "SELECT setval('"+valueSequence+"', $1, false)", next); err != nil {
		return 0, fmt.Errorf("resetting sequence: %w", database.Classify(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sequence reset: %w", database.Classify(err))
	}

	return next, nil
}
