package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"wp-dispatch/models"
)

// Dialect selects placeholder syntax and error decoding for a SQL backend.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// NewSQLStore wraps a migrated database handle (see db.OpenPostgres and db.OpenSQLite).
func NewSQLStore(conn *sql.DB, dialect Dialect) *Store {
	q := &sqlQueries{db: conn, dialect: dialect}
	return &Store{
		Blogs: &SQLBlogRepository{q: q},
		Users: &SQLUserRepository{q: q},
		Ping:  conn.PingContext,
		Close: func(context.Context) error { return conn.Close() },
	}
}

type sqlQueries struct {
	db      *sql.DB
	dialect Dialect
}

// rebind rewrites ? placeholders to $n for postgres.
func (q *sqlQueries) rebind(query string) string {
	if q.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (q *sqlQueries) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return ErrNotFound
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		// 확장 결과 코드가 꺼져 있으면 메시지로 구분한다.
		msg := liteErr.Error()
		switch {
		case liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY || strings.Contains(msg, "FOREIGN KEY"):
			return ErrNotFound
		case liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || strings.Contains(msg, "UNIQUE"):
			return ErrConflict
		}
	}
	return err
}

// sqlTime scans timestamps from both drivers: lib/pq yields time.Time while
// sqlite may hand back text depending on the column affinity.
type sqlTime struct {
	t *time.Time
}

var sqliteTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (s sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.t = time.Time{}
		return nil
	case time.Time:
		*s.t = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
}

func (s sqlTime) parse(v string) error {
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", v)
}

type rowScanner interface {
	Scan(dest ...any) error
}

const blogColumns = `id, created_at, updated_at, name, api_url, wp_user, api_key, favicon, topic, keywords, owner_id`

func scanBlog(row rowScanner) (*models.Blog, error) {
	var b models.Blog
	err := row.Scan(&b.ID, sqlTime{&b.CreatedAt}, sqlTime{&b.UpdatedAt}, &b.Name, &b.APIURL, &b.WPUser,
		&b.APIKey, &b.Favicon, &b.Topic, &b.Keywords, &b.OwnerID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

type SQLBlogRepository struct {
	q *sqlQueries
}

func (r *SQLBlogRepository) query(ctx context.Context, where string, args ...any) ([]models.Blog, error) {
	rows, err := r.q.db.QueryContext(ctx, r.q.rebind(`SELECT `+blogColumns+` FROM blogs `+where+` ORDER BY id`), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query blogs: %w", err)
	}
	defer rows.Close()

	blogs := []models.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, *b)
	}
	return blogs, rows.Err()
}

func (r *SQLBlogRepository) List(ctx context.Context) ([]models.Blog, error) {
	return r.query(ctx, "")
}

func (r *SQLBlogRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Blog, error) {
	return r.query(ctx, "WHERE owner_id = ?", ownerID)
}

func (r *SQLBlogRepository) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	row := r.q.db.QueryRowContext(ctx, r.q.rebind(`SELECT `+blogColumns+` FROM blogs WHERE id = ?`), id)
	b, err := scanBlog(row)
	if err != nil {
		return nil, r.q.mapErr(err)
	}
	return b, nil
}

func (r *SQLBlogRepository) Create(ctx context.Context, b *models.Blog) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO blogs (created_at, updated_at, name, api_url, wp_user, api_key, favicon, topic, keywords, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := r.q.db.QueryRowContext(ctx, r.q.rebind(query),
		now, now, b.Name, b.APIURL, b.WPUser, b.APIKey, b.Favicon, b.Topic, b.Keywords, b.OwnerID,
	).Scan(&b.ID)
	if err != nil {
		return r.q.mapErr(err)
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

func (r *SQLBlogRepository) Update(ctx context.Context, id int64, patch models.BlogPatch) (*models.Blog, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("name", patch.Name)
	add("api_url", patch.APIURL)
	add("wp_user", patch.WPUser)
	add("api_key", patch.APIKey)
	add("favicon", patch.Favicon)
	add("topic", patch.Topic)
	add("keywords", patch.Keywords)
	args = append(args, id)

	query := `UPDATE blogs SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + blogColumns
	b, err := scanBlog(r.q.db.QueryRowContext(ctx, r.q.rebind(query), args...))
	if err != nil {
		return nil, r.q.mapErr(err)
	}
	return b, nil
}

func (r *SQLBlogRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.db.ExecContext(ctx, r.q.rebind(`DELETE FROM blogs WHERE id = ?`), id)
	if err != nil {
		return r.q.mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLBlogRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.q.db.ExecContext(ctx, r.q.rebind(`DELETE FROM blogs WHERE owner_id = ?`), ownerID)
	if err != nil {
		return 0, r.q.mapErr(err)
	}
	return res.RowsAffected()
}

const userColumns = `id, created_at, updated_at, external_id, name, last_name, email, writing_style`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var externalID, email sql.NullString
	err := row.Scan(&u.ID, sqlTime{&u.CreatedAt}, sqlTime{&u.UpdatedAt}, &externalID, &u.Name, &u.LastName, &email, &u.WritingStyle)
	if err != nil {
		return nil, err
	}
	u.ExternalID = externalID.String
	u.Email = email.String
	return &u, nil
}

// nullable stores empty strings as NULL so unique indexes ignore them.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type SQLUserRepository struct {
	q *sqlQueries
}

func (r *SQLUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.q.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.q.db.QueryRowContext(ctx, r.q.rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id))
	if err != nil {
		return nil, r.q.mapErr(err)
	}
	return u, nil
}

func (r *SQLUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	if externalID == "" {
		return nil, ErrNotFound
	}
	u, err := scanUser(r.q.db.QueryRowContext(ctx, r.q.rebind(`SELECT `+userColumns+` FROM users WHERE external_id = ?`), externalID))
	if err != nil {
		return nil, r.q.mapErr(err)
	}
	return u, nil
}

func (r *SQLUserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO users (created_at, updated_at, external_id, name, last_name, email, writing_style)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := r.q.db.QueryRowContext(ctx, r.q.rebind(query),
		now, now, nullable(u.ExternalID), u.Name, u.LastName, nullable(u.Email), u.WritingStyle,
	).Scan(&u.ID)
	if err != nil {
		return r.q.mapErr(err)
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *SQLUserRepository) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *patch.LastName)
	}
	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, nullable(*patch.Email))
	}
	if patch.WritingStyle != nil {
		sets = append(sets, "writing_style = ?")
		args = append(args, *patch.WritingStyle)
	}
	args = append(args, id)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + userColumns
	u, err := scanUser(r.q.db.QueryRowContext(ctx, r.q.rebind(query), args...))
	if err != nil {
		return nil, r.q.mapErr(err)
	}
	return u, nil
}

// Delete removes the user; owned blogs go with it through ON DELETE CASCADE.
func (r *SQLUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.db.ExecContext(ctx, r.q.rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return r.q.mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
