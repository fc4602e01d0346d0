package index

import (
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/xxh3"
)

const schema = `
CREATE TABLE IF NOT EXISTS snippets (
	hash   TEXT PRIMARY KEY,
	tokens INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tokens (
	token TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 0
);
`

// TokenCount 是词表中的一行
type TokenCount struct {
	Token string
	Count int
}

// Index 基于 sqlite 的 token 词频表，按片段内容哈希去重
type Index struct {
	db *sql.DB
}

// Open 打开 (或创建) 索引库，path 可以是 ":memory:"
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	// :memory: 每个连接都是独立的库
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Index{db: db}, nil
}

// SnippetHash 返回片段内容的 xxh3 摘要
func SnippetHash(snippet string) string {
	h := xxh3.New()
	h.WriteString(snippet)
	return hex.EncodeToString(h.Sum(nil))
}

// AddSnippet 记录片段的 token；同一片段只计一次，重复时 added 为 false
func (ix *Index) AddSnippet(snippet string, tokens []string) (added bool, err error) {
	tx, err := ix.db.Begin()
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.Exec(`INSERT OR IGNORE INTO snippets (hash, tokens) VALUES (?, ?)`, SnippetHash(snippet), len(tokens))
	if err != nil {
		return false, fmt.Errorf("failed to insert snippet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, tx.Commit()
	}

	stmt, err := tx.Prepare(`INSERT INTO tokens (token, count) VALUES (?, 1)
		ON CONFLICT(token) DO UPDATE SET count = count + 1`)
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	for _, t := range tokens {
		if _, err = stmt.Exec(t); err != nil {
			return false, fmt.Errorf("failed to count token %q: %w", t, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Count 返回 token 的累计次数，不存在时为 0
func (ix *Index) Count(token string) (int, error) {
	var n int
	err := ix.db.QueryRow(`SELECT count FROM tokens WHERE token = ?`, token).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}

// Snippets 返回已收录的片段数
func (ix *Index) Snippets() (int, error) {
	var n int
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM snippets`).Scan(&n)
	return n, err
}

// Top 按次数降序返回前 n 个 token，次数相同按字典序
func (ix *Index) Top(n int) ([]TokenCount, error) {
	rows, err := ix.db.Query(`SELECT token, count FROM tokens ORDER BY count DESC, token ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TokenCount
	for rows.Next() {
		var tc TokenCount
		if err := rows.Scan(&tc.Token, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (ix *Index) Close() error {
	return ix.db.Close()
}
