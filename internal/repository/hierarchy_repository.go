package repository

import (
	"context"

	"github.com/a2sh3r/commission-ledger/internal/models"
)

type hierarchyRepo struct {
	q querier
}

func NewHierarchyRepository(q querier) HierarchyRepository {
	return &hierarchyRepo{q: q}
}

// The path array stops recursion on the first repeated node; that node is
// still emitted so callers can see the cycle.
func (r *hierarchyRepo) Ancestors(ctx context.Context, id int64, limit int) ([]models.HierarchyNode, error) {
	return r.walk(ctx, `
		WITH RECURSIVE chain (id, parent_id, role, disabled, depth, path, cycle) AS (
			SELECT a.id, a.parent_id, a.role, a.disabled, 0, ARRAY[a.id], FALSE
			FROM accounts a
			WHERE a.id = $1
			UNION ALL
			SELECT p.id, p.parent_id, p.role, p.disabled, c.depth + 1, c.path || p.id, p.id = ANY(c.path)
			FROM chain c
			JOIN accounts p ON p.id = c.parent_id
			WHERE NOT c.cycle AND c.depth < $2
		)
		SELECT id, parent_id, role, disabled, depth FROM chain WHERE depth > 0 ORDER BY depth
	`, id, limit)
}

func (r *hierarchyRepo) Descendants(ctx context.Context, id int64, limit int) ([]models.HierarchyNode, error) {
	return r.walk(ctx, `
		WITH RECURSIVE downline (id, parent_id, role, disabled, depth, path, cycle) AS (
			SELECT a.id, a.parent_id, a.role, a.disabled, 0, ARRAY[a.id], FALSE
			FROM accounts a
			WHERE a.id = $1
			UNION ALL
			SELECT ch.id, ch.parent_id, ch.role, ch.disabled, d.depth + 1, d.path || ch.id, ch.id = ANY(d.path)
			FROM downline d
			JOIN accounts ch ON ch.parent_id = d.id
			WHERE NOT d.cycle AND d.depth < $2
		)
		SELECT id, parent_id, role, disabled, depth FROM downline WHERE depth > 0 ORDER BY depth, id
	`, id, limit)
}

func (r *hierarchyRepo) walk(ctx context.Context, query string, id int64, limit int) ([]models.HierarchyNode, error) {
	rows, err := r.q.QueryContext(ctx, query, id, limit)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var nodes []models.HierarchyNode
	for rows.Next() {
		var n models.HierarchyNode
		if err := rows.Scan(&n.AccountID, &n.ParentID, &n.Role, &n.Disabled, &n.Depth); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
