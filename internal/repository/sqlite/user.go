package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/model"
	"github.com/cashflowcoders/devplanner/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, name, email, password_hash, github_id, current_day,
	target_revenue, current_revenue, streak_count, email_verified,
	email_updates, public_profile, link_twitter, link_github,
	link_linkedin, link_website, created_at, updated_at`

// CreateUser inserts a new user. The UNIQUE email index is the final
// backstop against the check-then-insert race in registration — a
// concurrent duplicate comes back as a conflict, never a second row.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.CurrentDay < 1 {
		user.CurrentDay = 1
	}

	var githubID any
	if user.GitHubID != 0 {
		githubID = user.GitHubID
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, githubID,
		user.CurrentDay, user.TargetRevenue, user.CurrentRevenue,
		user.StreakCount, user.EmailVerified,
		user.Settings.EmailUpdates, user.Settings.PublicProfile,
		user.SocialLinks.Twitter, user.SocialLinks.GitHub,
		user.SocialLinks.LinkedIn, user.SocialLinks.Website,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}
	return nil
}

func (db *DB) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var githubID sql.NullInt64
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &githubID,
		&u.CurrentDay, &u.TargetRevenue, &u.CurrentRevenue,
		&u.StreakCount, &u.EmailVerified,
		&u.Settings.EmailUpdates, &u.Settings.PublicProfile,
		&u.SocialLinks.Twitter, &u.SocialLinks.GitHub,
		&u.SocialLinks.LinkedIn, &u.SocialLinks.Website,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.GitHubID = githubID.Int64
	return &u, nil
}

// GetUserByID retrieves a user by internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email (used by login and registration).
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return u, nil
}

// GetUserByGitHubID retrieves a user by linked GitHub account.
func (db *DB) GetUserByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	u, err := db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_id = ?`, githubID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("github:%d", githubID))
		}
		return nil, fmt.Errorf("sqlite: getting user by github id: %w", err)
	}
	return u, nil
}

// UpdateUser writes the mutable profile fields. Email and password_hash are
// deliberately excluded — they change only through their dedicated flows.
func (db *DB) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, current_day = ?, target_revenue = ?,
			current_revenue = ?, streak_count = ?, email_updates = ?,
			public_profile = ?, link_twitter = ?, link_github = ?,
			link_linkedin = ?, link_website = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name, user.CurrentDay, user.TargetRevenue,
		user.CurrentRevenue, user.StreakCount,
		user.Settings.EmailUpdates, user.Settings.PublicProfile,
		user.SocialLinks.Twitter, user.SocialLinks.GitHub,
		user.SocialLinks.LinkedIn, user.SocialLinks.Website,
		user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	return checkAffected(result, "user", user.ID)
}

// UpdatePassword overwrites the password hash.
func (db *DB) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating password for user %s: %w", id, err)
	}
	return checkAffected(result, "user", id)
}

// SetEmailVerified marks the account's email as verified.
func (db *DB) SetEmailVerified(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: verifying email for user %s: %w", id, err)
	}
	return checkAffected(result, "user", id)
}

// LinkGitHub attaches a GitHub account to an existing user.
func (db *DB) LinkGitHub(ctx context.Context, id string, githubID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET github_id = ?, updated_at = ? WHERE id = ?`,
		githubID, time.Now(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("GitHub account already linked to another user")
		}
		return fmt.Errorf("sqlite: linking github for user %s: %w", id, err)
	}
	return checkAffected(result, "user", id)
}

// checkAffected translates "0 rows affected" into NotFound. One query
// instead of SELECT + UPDATE.
func checkAffected(result sql.Result, resource, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
