package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/magefree/battle-engine-go/internal/battle/encounter"
	"github.com/magefree/battle-engine-go/internal/battle/replay"
)

// ErrNotFound is returned when no battle has the requested id.
var ErrNotFound = errors.New("battle not found")

// Battle is one stored battle.
type Battle struct {
	ID        uuid.UUID
	Seed      uint64
	Setup     encounter.Setup
	Won       bool
	Turns     int
	PlayerHP  int
	Actions   int
	Digest    string
	Replay    []byte
	CreatedAt time.Time
}

// FromRecord builds a row from a replay record. playerHP is the final HP.
func FromRecord(rec replay.Record, playerHP int) (Battle, error) {
	id, err := uuid.Parse(rec.BattleID)
	if err != nil {
		return Battle{}, fmt.Errorf("invalid battle id %q: %w", rec.BattleID, err)
	}
	data, err := rec.Marshal()
	if err != nil {
		return Battle{}, err
	}
	return Battle{
		ID:        id,
		Seed:      rec.Seed,
		Setup:     rec.Setup,
		Won:       rec.Won,
		Turns:     rec.Turns,
		PlayerHP:  playerHP,
		Actions:   len(rec.Actions),
		Digest:    rec.Digest,
		Replay:    data,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Record decodes the stored replay.
func (b Battle) Record() (replay.Record, error) {
	return replay.Unmarshal(b.Replay)
}

// BattleRepository stores battle history.
type BattleRepository struct {
	db DBTX
}

func NewBattleRepository(db DBTX) *BattleRepository {
	return &BattleRepository{db: db}
}

// Save inserts a battle. Saving the same id twice keeps the first row.
func (r *BattleRepository) Save(ctx context.Context, b Battle) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO battles (id, seed, setup, won, turns, player_hp, actions, digest, replay, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		b.ID, int64(b.Seed), b.Setup, b.Won, b.Turns, b.PlayerHP, b.Actions, b.Digest, b.Replay, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save battle %s: %w", b.ID, err)
	}
	return nil
}

const selectBattle = `SELECT id, seed, setup, won, turns, player_hp, actions, digest, replay, created_at FROM battles`

// Get loads one battle.
func (r *BattleRepository) Get(ctx context.Context, id uuid.UUID) (Battle, error) {
	b, err := scanBattle(r.db.QueryRow(ctx, selectBattle+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Battle{}, ErrNotFound
	}
	if err != nil {
		return Battle{}, fmt.Errorf("failed to get battle %s: %w", id, err)
	}
	return b, nil
}

// ListRecent returns up to limit battles, newest first.
func (r *BattleRepository) ListRecent(ctx context.Context, limit int) ([]Battle, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, selectBattle+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list battles: %w", err)
	}
	defer rows.Close()

	var out []Battle
	for rows.Next() {
		b, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan battle: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list battles: %w", err)
	}
	return out, nil
}

// WinRate returns won and total battle counts.
func (r *BattleRepository) WinRate(ctx context.Context) (won, total int, err error) {
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FILTER (WHERE won), COUNT(*) FROM battles`).Scan(&won, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count battles: %w", err)
	}
	return won, total, nil
}

func scanBattle(row pgx.Row) (Battle, error) {
	var (
		b    Battle
		seed int64
	)
	err := row.Scan(&b.ID, &seed, &b.Setup, &b.Won, &b.Turns, &b.PlayerHP, &b.Actions, &b.Digest, &b.Replay, &b.CreatedAt)
	if err != nil {
		return Battle{}, err
	}
	b.Seed = uint64(seed)
	return b, nil
}
