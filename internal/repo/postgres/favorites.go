package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/soraleth/wavedex/internal/domain/favorite"
	"github.com/soraleth/wavedex/internal/observability"
)

type FavoritesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewFavoritesRepo(pool *pgxpool.Pool, prom *observability.Prom) *FavoritesRepo {
	return &FavoritesRepo{pool: pool, prom: prom}
}

func (r *FavoritesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *FavoritesRepo) ListRefs(ctx context.Context, userID string) ([]favorite.Ref, error) {
	var refs []favorite.Ref

	err := r.observe("favorites.list_refs", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT character_id FROM user_favorites WHERE user_id = $1 ORDER BY created_at`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var ref favorite.Ref

			if err := rows.Scan(&ref.CharacterID); err != nil {
				return err
			}

			refs = append(refs, ref)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	if refs == nil {
		refs = []favorite.Ref{}
	}

	return refs, nil
}

func (r *FavoritesRepo) ListWithCharacters(ctx context.Context, userID string) ([]favorite.WithCharacter, error) {
	var favorites []favorite.WithCharacter

	err := r.observe("favorites.list_with_characters", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT f.character_id, c.id, c.name, c.image_url, c.rarity, c.weapon_type, c.element, c.description, c.created_at, c.updated_at
			FROM user_favorites f
			JOIN characters c ON c.id = f.character_id
			WHERE f.user_id = $1
			ORDER BY f.created_at`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var fc favorite.WithCharacter

			err := rows.Scan(
				&fc.CharacterID,
				&fc.Character.ID,
				&fc.Character.Name,
				&fc.Character.ImageURL,
				&fc.Character.Rarity,
				&fc.Character.WeaponType,
				&fc.Character.Element,
				&fc.Character.Description,
				&fc.Character.CreatedAt,
				&fc.Character.UpdatedAt,
			)

			if err != nil {
				return err
			}

			favorites = append(favorites, fc)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	if favorites == nil {
		favorites = []favorite.WithCharacter{}
	}

	return favorites, nil
}

// Add inserts the (user, character) pair. The unique index turns a repeat
// insert into ErrDuplicateFavorite instead of racing a lookup.
func (r *FavoritesRepo) Add(ctx context.Context, userID, characterID string) (favorite.Favorite, error) {
	f := favorite.Favorite{
		ID:          uuid.NewString(),
		UserID:      userID,
		CharacterID: characterID,
		CreatedAt:   time.Now().UTC(),
	}

	err := r.observe("favorites.add", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO user_favorites (id, user_id, character_id, created_at)
			VALUES ($1,$2,$3,$4)`,
			f.ID, f.UserID, f.CharacterID, f.CreatedAt,
		)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return favorite.Favorite{}, ErrDuplicateFavorite
		}

		return favorite.Favorite{}, err
	}

	return f, nil
}

// Remove is scoped to the acting user; removing someone else's favorite is
// indistinguishable from removing one that never existed.
func (r *FavoritesRepo) Remove(ctx context.Context, userID, characterID string) error {
	var affected int64

	err := r.observe("favorites.remove", func() error {
		res, err := r.pool.Exec(ctx,
			`DELETE FROM user_favorites WHERE user_id = $1 AND character_id = $2`,
			userID, characterID,
		)

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
		return ErrFavoriteNotFound
	}

	return nil
}
