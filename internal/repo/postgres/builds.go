package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/soraleth/wavedex/internal/domain/build"
	"github.com/soraleth/wavedex/internal/observability"
	"github.com/soraleth/wavedex/internal/patch"
)

type BuildsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewBuildsRepo(pool *pgxpool.Pool, prom *observability.Prom) *BuildsRepo {
	return &BuildsRepo{pool: pool, prom: prom}
}

func (r *BuildsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const buildColumns = `id, user_id, character_id, build_name, weapon, echo_set_1, echo_set_2, main_echo, sub_stats, final_stats, notes, created_at, updated_at`

func scanBuild(row pgx.Row) (build.Build, error) {
	var b build.Build

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.CharacterID,
		&b.BuildName,
		&b.Weapon,
		&b.EchoSet1,
		&b.EchoSet2,
		&b.MainEcho,
		&b.SubStats,
		&b.FinalStats,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	return b, err
}

func (r *BuildsRepo) collect(ctx context.Context, op, query string, args ...interface{}) ([]build.Build, error) {
	var builds []build.Build

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			b, err := scanBuild(rows)

			if err != nil {
				return err
			}

			builds = append(builds, b)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	if builds == nil {
		builds = []build.Build{}
	}

	return builds, nil
}

func (r *BuildsRepo) ListByUser(ctx context.Context, userID string) ([]build.Build, error) {
	return r.collect(ctx, "builds.list_by_user",
		`SELECT `+buildColumns+` FROM character_builds WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
}

func (r *BuildsRepo) ListByUserAndCharacter(ctx context.Context, userID, characterID string) ([]build.Build, error) {
	return r.collect(ctx, "builds.list_by_user_and_character",
		`SELECT `+buildColumns+` FROM character_builds WHERE user_id = $1 AND character_id = $2 ORDER BY created_at`,
		userID, characterID,
	)
}

// ListAll is the admin moderation view.
func (r *BuildsRepo) ListAll(ctx context.Context) ([]build.Build, error) {
	return r.collect(ctx, "builds.list_all",
		`SELECT `+buildColumns+` FROM character_builds ORDER BY created_at`,
	)
}

func (r *BuildsRepo) GetByID(ctx context.Context, id string) (build.Build, error) {
	var b build.Build

	err := r.observe("builds.get_by_id", func() error {
		var scanErr error
		b, scanErr = scanBuild(r.pool.QueryRow(
			ctx,
			`SELECT `+buildColumns+` FROM character_builds WHERE id = $1`,
			id,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return build.Build{}, ErrBuildNotFound
		}

		return build.Build{}, err
	}

	return b, nil
}

func (r *BuildsRepo) Create(ctx context.Context, userID string, req build.CreateBuildRequest) (build.Build, error) {
	now := time.Now().UTC()

	b := build.Build{
		ID:          uuid.NewString(),
		UserID:      userID,
		CharacterID: req.CharacterID,
		BuildName:   req.BuildName,
		Weapon:      req.Weapon,
		EchoSet1:    req.EchoSet1,
		EchoSet2:    req.EchoSet2,
		MainEcho:    req.MainEcho,
		SubStats:    req.SubStats,
		FinalStats:  req.FinalStats,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.observe("builds.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO character_builds (`+buildColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			b.ID, b.UserID, b.CharacterID, b.BuildName, b.Weapon, b.EchoSet1, b.EchoSet2,
			b.MainEcho, b.SubStats, b.FinalStats, b.Notes, b.CreatedAt, b.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return build.Build{}, err
	}

	return b, nil
}

// Update applies an owner patch: absent fields keep the column, null fields
// clear nullable columns, values replace.
func (r *BuildsRepo) Update(ctx context.Context, id string, req build.UpdateBuildRequest) (build.Build, error) {
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now().UTC()}
	pos := 2

	appendSet := func(column string, f patch.Field[string]) {
		if !f.Present() {
			return
		}

		sets = append(sets, fmt.Sprintf("%s = $%d", column, pos))
		args = append(args, f.Ptr())
		pos++
	}

	// build_name is NOT NULL; a null patch is rejected at the handler
	appendSet("build_name", req.BuildName)
	appendSet("weapon", req.Weapon)
	appendSet("echo_set_1", req.EchoSet1)
	appendSet("echo_set_2", req.EchoSet2)
	appendSet("main_echo", req.MainEcho)
	appendSet("sub_stats", req.SubStats)
	appendSet("final_stats", req.FinalStats)
	appendSet("notes", req.Notes)

	query := fmt.Sprintf(
		`UPDATE character_builds SET %s WHERE id = $%d RETURNING `+buildColumns,
		strings.Join(sets, ", "), pos,
	)
	args = append(args, id)

	var b build.Build

	err := r.observe("builds.update", func() error {
		var scanErr error
		b, scanErr = scanBuild(r.pool.QueryRow(ctx, query, args...))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return build.Build{}, ErrBuildNotFound
		}

		return build.Build{}, err
	}

	return b, nil
}

func (r *BuildsRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("builds.delete", func() error {
		res, err := r.pool.Exec(ctx, `DELETE FROM character_builds WHERE id = $1`, id)

		if err != nil {
			return err
		}

		affected = res.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrBuildNotFound
	}

	return nil
}
