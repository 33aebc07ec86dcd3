// backend-go/internal/repository/postgres/issue_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/repository"
)

type issueRepository struct {
	db *DB
}

func NewIssueRepository(db *DB) repository.IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) ListIssues(ctx context.Context, userID string) ([]domain.CleanupIssue, error) {
	query := `
		SELECT id, user_id, issue_type, severity, affected_skus, suggested_action, resolved, created_at
		FROM cleanup_issues
		WHERE user_id = $1
		ORDER BY severity, created_at`

	issues := []domain.CleanupIssue{}
	if err := r.db.SelectContext(ctx, &issues, query, userID); err != nil {
		return nil, fmt.Errorf("list cleanup issues: %w", err)
	}
	return issues, nil
}

func (r *issueRepository) ReplaceIssues(ctx context.Context, userID string, issues []domain.CleanupIssue) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cleanup_issues WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear cleanup issues: %w", err)
		}

		query := `
			INSERT INTO cleanup_issues (id, user_id, issue_type, severity, affected_skus, suggested_action, resolved, created_at)
			VALUES (:id, :user_id, :issue_type, :severity, :affected_skus, :suggested_action, :resolved, :created_at)`

		for i := range issues {
			issues[i].UserID = userID
			if _, err := tx.NamedExecContext(ctx, query, issues[i]); err != nil {
				return fmt.Errorf("insert cleanup issue %s: %w", issues[i].ID, err)
			}
		}
		return nil
	})
}

func (r *issueRepository) ResolveIssues(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE cleanup_issues
		SET resolved = TRUE
		WHERE user_id = $1 AND id = ANY($2) AND resolved = FALSE`

	res, err := r.db.ExecContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("resolve cleanup issues: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("resolve cleanup issues rows affected: %w", err)
	}
	return affected, nil
}
