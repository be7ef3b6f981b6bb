// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	adminerrors "github.com/gunplahub/api/admin/errors"
	"github.com/gunplahub/api/internal/database/postgres"
	"github.com/gunplahub/api/internal/listquery"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Row is one generic admin record keyed by exposed field name.
type Row map[string]interface{}

// Repository is the generic data-access contract shared by every admin
// resource.
type Repository interface {
	List(ctx context.Context, res *Resource, q listquery.ListQuery) ([]Row, error)
	Count(ctx context.Context, res *Resource, q listquery.ListQuery) (int64, error)
	Create(ctx context.Context, res *Resource, values map[string]interface{}) (Row, error)
	Update(ctx context.Context, res *Resource, id int64, values map[string]interface{}) (Row, error)
	Delete(ctx context.Context, res *Resource, id int64) error
}

// postgresRepository implements Repository with one squirrel-built
// statement set per resource schema.
type postgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates the generic admin repository.
func NewPostgresRepository(client *postgres.Client) Repository {
	return &postgresRepository{client: client}
}

// List runs the filtered, sorted, paginated query for a resource.
func (r *postgresRepository) List(ctx context.Context, res *Resource, q listquery.ListQuery) ([]Row, error) {
	builder, err := listquery.NewBuilder(res.Table()).Select(q, res.Columns()...)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}

	rows, err := r.client.DB().QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
		}
		out = append(out, normalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}
	return out, nil
}

// Count counts the rows matching the query's predicates.
func (r *postgresRepository) Count(ctx context.Context, res *Resource, q listquery.ListQuery) (int64, error) {
	builder, err := listquery.NewBuilder(res.Table()).Count(q)
	if err != nil {
		return 0, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}

	var count int64
	if err := r.client.DB().GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}
	return count, nil
}

// Create inserts one row from validated field values and returns the
// stored record.
func (r *postgresRepository) Create(ctx context.Context, res *Resource, values map[string]interface{}) (Row, error) {
	columns := make([]string, 0, len(values))
	args := make([]interface{}, 0, len(values))
	for name, value := range values {
		field, ok := res.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", adminerrors.ErrUnknownField, name)
		}
		columns = append(columns, field.Column)
		args = append(args, value)
	}

	query, sqlArgs, err := psql.Insert(res.TableName).
		Columns(columns...).
		Values(args...).
		Suffix("RETURNING " + strings.Join(res.Columns(), ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}

	return r.scanOne(ctx, query, sqlArgs)
}

// Update applies a partial update of writable fields and returns the
// stored record.
func (r *postgresRepository) Update(ctx context.Context, res *Resource, id int64, values map[string]interface{}) (Row, error) {
	setMap := make(map[string]interface{}, len(values))
	for name, value := range values {
		field, ok := res.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", adminerrors.ErrUnknownField, name)
		}
		setMap[field.Column] = value
	}

	query, sqlArgs, err := psql.Update(res.TableName).
		SetMap(setMap).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(res.Columns(), ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}

	return r.scanOne(ctx, query, sqlArgs)
}

// Delete removes one row; a missing id reports ErrRowNotFound.
func (r *postgresRepository) Delete(ctx context.Context, res *Resource, id int64) error {
	query, args, err := psql.Delete(res.TableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}

	result, err := r.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", adminerrors.ErrRowNotFound, id)
	}
	return nil
}

func (r *postgresRepository) scanOne(ctx context.Context, query string, args []interface{}) (Row, error) {
	row := map[string]interface{}{}
	if err := r.client.DB().QueryRowxContext(ctx, query, args...).MapScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, adminerrors.ErrRowNotFound
		}
		return nil, fmt.Errorf("%w: %v", adminerrors.ErrDatabaseOperation, err)
	}
	return normalizeRow(row), nil
}

// normalizeRow converts driver byte slices to strings so rows encode as
// JSON text rather than base64.
func normalizeRow(row map[string]interface{}) Row {
	for key, value := range row {
		if b, ok := value.([]byte); ok {
			row[key] = string(b)
		}
	}
	return row
}
