package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/categories.sql
var seedCategoriesSQL string

// tables are created in dependency order.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS categories (
    id          BIGSERIAL PRIMARY KEY,
    name        VARCHAR(50) NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS articles (
    id           BIGSERIAL PRIMARY KEY,
    title        TEXT NOT NULL,
    content      TEXT NOT NULL,
    summary      TEXT NOT NULL DEFAULT '',
    cover_image  TEXT NOT NULL DEFAULT '',
    category_id  BIGINT REFERENCES categories(id) ON DELETE RESTRICT,
    status       VARCHAR(20) NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
    published_at TIMESTAMPTZ,
    view_count   BIGINT NOT NULL DEFAULT 0 CHECK (view_count >= 0),
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS comments (
    id           BIGSERIAL PRIMARY KEY,
    article_id   BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    content      TEXT NOT NULL,
    author_name  VARCHAR(100) NOT NULL,
    author_email VARCHAR(254) NOT NULL DEFAULT '',
    status       VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'spam')),
    ip_address   VARCHAR(64) NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS subscribers (
    id         BIGSERIAL PRIMARY KEY,
    email      VARCHAR(254) NOT NULL UNIQUE,
    status     VARCHAR(20) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'unsubscribed')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS settings (
    group_name VARCHAR(50) NOT NULL,
    key_name   VARCHAR(50) NOT NULL,
    value      TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (group_name, key_name)
)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
    id            BIGSERIAL PRIMARY KEY,
    action        VARCHAR(50) NOT NULL,
    resource_type VARCHAR(50) NOT NULL,
    resource_id   BIGINT,
    details       TEXT NOT NULL DEFAULT '',
    actor         VARCHAR(100) NOT NULL DEFAULT '',
    ip_address    VARCHAR(64) NOT NULL DEFAULT '',
    user_agent    TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS media (
    id            BIGSERIAL PRIMARY KEY,
    filename      TEXT NOT NULL UNIQUE,
    original_name TEXT NOT NULL,
    url           TEXT NOT NULL,
    mime_type     VARCHAR(100) NOT NULL,
    size          BIGINT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS search_queries (
    id          BIGSERIAL PRIMARY KEY,
    term        VARCHAR(100) NOT NULL,
    searched_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS popular_terms (
    term       VARCHAR(100) PRIMARY KEY,
    count      BIGINT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
}

var indexes = []string{
	// 公開記事一覧: ORDER BY published_at DESC
	`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_category_id ON articles(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_status ON articles(status)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_article_id ON comments(article_id)`,
	`CREATE INDEX IF NOT EXISTS idx_search_queries_searched_at ON search_queries(searched_at)`,
}

// searchIndexes need pg_trgm and are skipped when it is unavailable.
var searchIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_articles_title_gin ON articles USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_summary_gin ON articles USING gin(summary gin_trgm_ops)`,
}

// MigrateUp creates the schema if missing and seeds the default categories.
// It is safe to run on every start.
func MigrateUp(db *sql.DB) error {
	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// pg_trgm拡張を有効化(ILIKE検索高速化用)
	// 権限がない場合はエラーを無視する
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	for _, idx := range searchIndexes {
		_, _ = db.Exec(idx)
	}

	if _, err := db.Exec(seedCategoriesSQL); err != nil {
		return err
	}
	return nil
}

// MigrateDown drops every table created by MigrateUp.
func MigrateDown(db *sql.DB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.Exec(`DROP TABLE IF EXISTS ` + tableNames[i] + ` CASCADE`); err != nil {
			return err
		}
	}
	return nil
}

// tableNames matches tables index for index.
var tableNames = []string{
	"categories", "articles", "comments", "subscribers", "settings",
	"activity_logs", "media", "search_queries", "popular_terms",
}
