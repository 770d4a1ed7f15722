package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mealledger/internal/models"
)

const memberColumns = `id, name, member_type, status, monthly_deposit, created_at`

// CreateMember inserts a new member into the database.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}
	if member.Status == "" {
		member.Status = models.MemberStatusActive
	}

	query := `
		INSERT INTO members (id, name, member_type, status, monthly_deposit, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		member.ID,
		member.Name,
		string(member.Type),
		string(member.Status),
		member.MonthlyDeposit,
		member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ?`

	member, err := scanMember(s.db.QueryRowContext(ctx, query, memberID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "member", ID: memberID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// ListMembers returns every member ordered by name.
func (s *SQLiteStore) ListMembers(ctx context.Context) ([]models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// SetMemberStatus updates the lifecycle state of a member.
func (s *SQLiteStore) SetMemberStatus(ctx context.Context, memberID string, status models.MemberStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE members SET status = ? WHERE id = ?`, string(status), memberID)
	if err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "member", ID: memberID}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	var (
		m          models.Member
		memberType string
		status     string
	)
	if err := row.Scan(&m.ID, &m.Name, &memberType, &status, &m.MonthlyDeposit, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Type = models.MemberType(memberType)
	m.Status = models.MemberStatus(status)
	return &m, nil
}
