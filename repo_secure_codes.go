package accounts

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type secureCodes struct {
	db *bun.DB
}

var _ SecureCodeStore = (*secureCodes)(nil)

// NewSecureCodeStore wires the secure_codes table behind SecureCodeStore.
func NewSecureCodeStore(db *bun.DB) SecureCodeStore {
	return &secureCodes{db: db}
}

// Create persists the code. A colliding numeric value overwrites the
// previous record, matching the keyed-by-code mapping semantics.
func (s *secureCodes) Create(ctx context.Context, record *SecureCode) error {
	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (code) DO UPDATE").
		Set("user_id = EXCLUDED.user_id").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist secure code")
	}

	return nil
}

// Consume removes the code and returns its record in a single
// DELETE ... RETURNING statement, so two racing redemptions can never
// both observe the same code.
func (s *secureCodes) Consume(ctx context.Context, code string) (*SecureCode, error) {
	record := &SecureCode{}

	err := s.db.NewDelete().
		Model(record).
		Where("?TableAlias.code = ?", code).
		Returning("*").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCode
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume secure code")
	}

	return record, nil
}
