package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/soraleth/wavedex/internal/domain/character"
	"github.com/soraleth/wavedex/internal/observability"
)

type CharactersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCharactersRepo(pool *pgxpool.Pool, prom *observability.Prom) *CharactersRepo {
	return &CharactersRepo{pool: pool, prom: prom}
}

func (r *CharactersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const characterColumns = `id, name, image_url, rarity, weapon_type, element, description, created_at, updated_at`

func scanCharacter(row pgx.Row) (character.Character, error) {
	var c character.Character

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.ImageURL,
		&c.Rarity,
		&c.WeaponType,
		&c.Element,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	return c, err
}

func (r *CharactersRepo) List(ctx context.Context) ([]character.Character, error) {
	var characters []character.Character

	err := r.observe("characters.list", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT `+characterColumns+` FROM characters ORDER BY rarity DESC, name`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			c, err := scanCharacter(rows)

			if err != nil {
				return err
			}

			characters = append(characters, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	if characters == nil {
		characters = []character.Character{}
	}

	return characters, nil
}

func (r *CharactersRepo) GetByID(ctx context.Context, id string) (character.Character, error) {
	var c character.Character

	err := r.observe("characters.get_by_id", func() error {
		var scanErr error
		c, scanErr = scanCharacter(r.pool.QueryRow(
			ctx,
			`SELECT `+characterColumns+` FROM characters WHERE id = $1`,
			id,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return character.Character{}, ErrCharacterNotFound
		}

		return character.Character{}, err
	}

	return c, nil
}

func (r *CharactersRepo) Create(ctx context.Context, req character.CreateCharacterRequest) (character.Character, error) {
	now := time.Now().UTC()

	c := character.Character{
		ID:          uuid.NewString(),
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		Rarity:      req.Rarity,
		WeaponType:  req.WeaponType,
		Element:     req.Element,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.observe("characters.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO characters (id, name, image_url, rarity, weapon_type, element, description, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			c.ID, c.Name, c.ImageURL, c.Rarity, c.WeaponType, c.Element, c.Description, c.CreatedAt, c.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return character.Character{}, err
	}

	return c, nil
}

func (r *CharactersRepo) Update(ctx context.Context, id string, req character.UpdateCharacterRequest) (character.Character, error) {
	var c character.Character

	err := r.observe("characters.update", func() error {
		var scanErr error
		c, scanErr = scanCharacter(r.pool.QueryRow(ctx,
			`UPDATE characters
			SET name = $2, image_url = $3, rarity = $4, weapon_type = $5, element = $6, description = $7, updated_at = $8
			WHERE id = $1
			RETURNING `+characterColumns,
			id, req.Name, req.ImageURL, req.Rarity, req.WeaponType, req.Element, req.Description, time.Now().UTC(),
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return character.Character{}, ErrCharacterNotFound
		}

		return character.Character{}, err
	}

	return c, nil
}

// Delete removes a character; favorites and builds referencing it are
// removed by the cascading foreign keys.
func (r *CharactersRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("characters.delete", func() error {
		res, err := r.pool.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)

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
		return ErrCharacterNotFound
	}

	return nil
}
