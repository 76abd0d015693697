package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Credential is a persisted login for one backend.
type Credential struct {
	ID        string
	BaseURL   string
	Email     string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Vault provides SQLite-backed persistence for credentials, one per backend.
type Vault struct {
	db *sql.DB
}

// OpenVault opens the SQLite database at dbPath and creates tables if they don't exist.
func OpenVault(dbPath string) (*Vault, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Vault{db: db}, nil
}

// Close closes the database connection.
func (v *Vault) Close() error {
	return v.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		id TEXT PRIMARY KEY,
		base_url TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		token TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Save stores the credential for baseURL, replacing any previous one.
func (v *Vault) Save(baseURL, email, token string) (*Credential, error) {
	now := time.Now()

	existing, err := v.Load(baseURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		_, err := v.db.Exec(
			`UPDATE credentials SET email = ?, token = ?, updated_at = ?
			 WHERE id = ?`,
			email, token, now, existing.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("update credential: %w", err)
		}
		existing.Email = email
		existing.Token = token
		existing.UpdatedAt = now
		return existing, nil
	}

	id := uuid.New().String()
	_, err = v.db.Exec(
		`INSERT INTO credentials (id, base_url, email, token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, baseURL, email, token, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert credential: %w", err)
	}

	return &Credential{
		ID:        id,
		BaseURL:   baseURL,
		Email:     email,
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Load returns the credential stored for baseURL, or nil if there is none.
func (v *Vault) Load(baseURL string) (*Credential, error) {
	row := v.db.QueryRow(
		`SELECT id, base_url, email, token, created_at, updated_at
		 FROM credentials WHERE base_url = ?`,
		baseURL,
	)

	var c Credential
	err := row.Scan(&c.ID, &c.BaseURL, &c.Email, &c.Token, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan credential: %w", err)
	}

	return &c, nil
}

// Delete removes the credential for baseURL. Deleting a missing entry is not an error.
func (v *Vault) Delete(baseURL string) error {
	if _, err := v.db.Exec(`DELETE FROM credentials WHERE base_url = ?`, baseURL); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// List returns every stored credential, most recently used first.
func (v *Vault) List() ([]Credential, error) {
	rows, err := v.db.Query(
		`SELECT id, base_url, email, token, created_at, updated_at
		 FROM credentials
		 ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var creds []Credential
	for rows.Next() {
		var c Credential
		if err := rows.Scan(&c.ID, &c.BaseURL, &c.Email, &c.Token, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		creds = append(creds, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return creds, nil
}

// Persister mirrors Store transitions into a Vault for one backend.
// A nil *Persister does nothing, which keeps the session in memory only.
type Persister struct {
	vault   *Vault
	baseURL string
}

// NewPersister binds vault to baseURL.
func NewPersister(vault *Vault, baseURL string) *Persister {
	if vault == nil {
		return nil
	}
	return &Persister{vault: vault, baseURL: baseURL}
}

// Restore loads a saved credential into store. It reports whether one was found.
func (p *Persister) Restore(store *Store) (bool, error) {
	if p == nil {
		return false, nil
	}
	c, err := p.vault.Load(p.baseURL)
	if err != nil || c == nil {
		return false, err
	}
	store.SetCredential(c.Token, c.Email)
	return true, nil
}

// Remember saves the store's current credential.
func (p *Persister) Remember(store *Store) error {
	if p == nil || !store.IsAuthenticated() {
		return nil
	}
	_, err := p.vault.Save(p.baseURL, store.Email(), store.Credential())
	return err
}

// Forget removes the saved credential.
func (p *Persister) Forget() error {
	if p == nil {
		return nil
	}
	return p.vault.Delete(p.baseURL)
}
