package repository

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"sweetShop/models"
)

// Search returns sweets matching every set field of f, in creation order.
// Name is a case-sensitive substring match, Category an exact match and the
// price bounds are inclusive.
func (r *SweetRepository) Search(ctx context.Context, f models.SweetFilter) ([]models.Sweet, error) {
	where, args := buildSweetFilter(f)
	q := `SELECT ` + sweetColumns + ` FROM sweets`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += creationOrder

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "repo: SearchSweets")
	}
	defer rows.Close()
	return scanSweetRows(rows)
}

func buildSweetFilter(f models.SweetFilter) ([]string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Name != "" {
		// instr keeps the match case-sensitive; LIKE would fold ASCII case.
		where = append(where, "instr(name, ?) > 0")
		args = append(args, f.Name)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *f.MaxPrice)
	}
	return where, args
}
