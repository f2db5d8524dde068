package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sweetShop/models"
)

type SweetRepository struct {
	db *sql.DB
}

func NewSweetRepository(db *sql.DB) *SweetRepository {
	return &SweetRepository{db: db}
}

const sweetColumns = `id, name, category, price, quantity, description, created_at, updated_at`

// creationOrder is the stable listing order: creation time, then insertion sequence.
const creationOrder = ` ORDER BY created_at ASC, seq ASC`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts s, assigning its ID and timestamps.
func (r *SweetRepository) Create(ctx context.Context, s *models.Sweet) (*models.Sweet, error) {
	if s == nil {
		return nil, stderrors.New("sweet is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	now := time.Now().UTC()
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO sweets (`+sweetColumns+`) VALUES (?,?,?,?,?,?,?,?)`,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, nullString(s.Description), now.UnixNano(), now.UnixNano())
	if err != nil {
		return nil, errors.Wrap(err, "repo: CreateSweet")
	}
	return s, nil
}

// GetByID returns nil, nil when the sweet does not exist.
func (r *SweetRepository) GetByID(ctx context.Context, id string) (*models.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanSweet(r.db.QueryRowContext(ctx, `SELECT `+sweetColumns+` FROM sweets WHERE id = ?`, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "repo: GetSweetByID")
	}
	return s, nil
}

// List returns every sweet in creation order.
func (r *SweetRepository) List(ctx context.Context) ([]models.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+sweetColumns+` FROM sweets`+creationOrder)
	if err != nil {
		return nil, errors.Wrap(err, "repo: ListSweets")
	}
	defer rows.Close()
	return scanSweetRows(rows)
}

// Update applies the non-nil fields of p and returns the stored row.
// An empty patch returns the row unchanged. Missing rows yield ErrNotFound.
func (r *SweetRepository) Update(ctx context.Context, id string, p models.SweetPatch) (*models.Sweet, error) {
	if p.Empty() {
		s, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, ErrNotFound
		}
		return s, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *p.Category)
	}
	if p.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *p.Price)
	}
	if p.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *p.Quantity)
	}
	switch {
	case p.ClearDescription:
		sets = append(sets, "description = NULL")
	case p.Description != nil:
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().UnixNano(), id)

	q := `UPDATE sweets SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + sweetColumns
	s, err := scanSweet(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "repo: UpdateSweet")
	}
	return s, nil
}

// Delete removes the sweet; a missing row yields ErrNotFound.
func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM sweets WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "repo: DeleteSweet")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "repo: DeleteSweet")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Decrement removes n units from the sweet's stock in one conditional
// statement, so the stock check and the write cannot be interleaved with
// another writer. It yields ErrInsufficientStock when fewer than n units
// are on hand and ErrNotFound when the sweet does not exist; in both cases
// nothing is written.
func (r *SweetRepository) Decrement(ctx context.Context, id string, n int64) (*models.Sweet, error) {
	if n <= 0 {
		return nil, errors.Errorf("repo: Decrement: non-positive amount %d", n)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanSweet(r.db.QueryRowContext(ctx, `
UPDATE sweets
SET quantity = quantity - ?, updated_at = ?
WHERE id = ? AND quantity >= ?
RETURNING `+sweetColumns, n, time.Now().UTC().UnixNano(), id, n))
	if err == nil {
		return s, nil
	}
	if !stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "repo: DecrementSweet")
	}
	return nil, r.missOrErr(ctx, id, ErrInsufficientStock)
}

// Increment adds n units to the sweet's stock in one statement. It yields
// ErrQuantityOverflow when the result would not fit in an int64 and
// ErrNotFound when the sweet does not exist.
func (r *SweetRepository) Increment(ctx context.Context, id string, n int64) (*models.Sweet, error) {
	if n <= 0 {
		return nil, errors.Errorf("repo: Increment: non-positive amount %d", n)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// SQLite silently promotes an overflowing integer sum to REAL; keep it integral.
	s, err := scanSweet(r.db.QueryRowContext(ctx, `
UPDATE sweets
SET quantity = quantity + ?, updated_at = ?
WHERE id = ? AND quantity <= ?
RETURNING `+sweetColumns, n, time.Now().UTC().UnixNano(), id, int64(math.MaxInt64)-n))
	if err == nil {
		return s, nil
	}
	if !stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "repo: IncrementSweet")
	}
	return nil, r.missOrErr(ctx, id, ErrQuantityOverflow)
}

// missOrErr tells a missing row apart from a row that failed the update's
// guard. The guard verdict was already final when the UPDATE ran; this only
// picks the error to report.
func (r *SweetRepository) missOrErr(ctx context.Context, id string, guardErr error) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sweets WHERE id = ?`, id).Scan(&one)
	if stderrors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "repo: sweet exists")
	}
	return guardErr
}

func scanSweet(row rowScanner) (*models.Sweet, error) {
	var (
		s                models.Sweet
		desc             sql.NullString
		created, updated int64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &desc, &created, &updated); err != nil {
		return nil, err
	}
	if desc.Valid {
		v := desc.String
		s.Description = &v
	}
	s.CreatedAt = time.Unix(0, created).UTC()
	s.UpdatedAt = time.Unix(0, updated).UTC()
	return &s, nil
}

func scanSweetRows(rows *sql.Rows) ([]models.Sweet, error) {
	out := make([]models.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, errors.Wrap(err, "repo: scan sweet")
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "repo: iterate sweets")
	}
	return out, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
