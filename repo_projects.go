package accounts

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProjectPatch carries the fields an owner may change on a project.
type ProjectPatch struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (p ProjectPatch) isZero() bool {
	return p == ProjectPatch{}
}

// Projects is the project repository, always owner-scoped.
type Projects interface {
	repository.Repository[*Project]

	ByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)
	ByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Project, error)
	ByName(ctx context.Context, name string) (*Project, error)
	UpdateForOwner(ctx context.Context, id, ownerID uuid.UUID, patch ProjectPatch) (*Project, error)
	DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error
}

type projects struct {
	repository.Repository[*Project]
	db *bun.DB
}

var _ Projects = (*projects)(nil)

// NewProjectsRepository wires the projects table behind Projects.
func NewProjectsRepository(db *bun.DB) Projects {
	repo := repository.NewRepository[*Project](db, repository.ModelHandlers[*Project]{
		NewRecord: func() *Project { return &Project{} },
		GetID: func(p *Project) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Project, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &projects{
		Repository: repo,
		db:         db,
	}
}

func (r *projects) ByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Project, error) {
	var records []*Project

	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.owner_id = ?", ownerID).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *projects) ByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*Project, error) {
	record := &Project{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner_id = ?", ownerID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"project_id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (r *projects) ByName(ctx context.Context, name string) (*Project, error) {
	record := &Project{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"name": name})
		}
		return nil, err
	}

	return record, nil
}

func (r *projects) UpdateForOwner(ctx context.Context, id, ownerID uuid.UUID, patch ProjectPatch) (*Project, error) {
	q := r.db.NewUpdate().
		Model((*Project)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner_id = ?", ownerID)

	if patch.Name != "" {
		q.Set("name = ?", patch.Name)
	}
	if patch.Description != "" {
		q.Set("description = ?", patch.Description)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"project_id": id.String()})
	}

	return r.ByIDForOwner(ctx, id, ownerID)
}

func (r *projects) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Project)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner_id = ?", ownerID).
		Exec(ctx)

	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"project_id": id.String()})
	}

	return nil
}
