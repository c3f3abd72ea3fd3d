// Package store はユーザーと設定のSQLite永続化層を提供する。
//
// ゲートウェイの外部コラボレータ契約（AuthenticatorとConfig）の
// 実体であり、資格情報のbcrypt検証と設定値の読み出しを担当する。
// 設定値はキャッシュせず、呼び出しのたびにデータベースから読み直す。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// ErrNoSetting は指定した名前の設定が存在しない場合に返される。
var ErrNoSetting = errors.New("設定が存在しない")

// 認証失敗時に呼び出し元へ返す理由文字列。
// どの検査で失敗したかを露呈しないよう、ユーザー不明とパスワード不一致は
// 同一のメッセージを使う。
const (
	reasonBadCredentials = "Incorrect username or password"
	reasonInactive       = "Your account is not active"
)

// Store はSQLiteを背後に持つユーザー・設定ストア。
type Store struct {
	db *sql.DB
}

// Open はSQLiteデータベースを開き、スキーマを適用してStoreを生成する。
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// インメモリDBは接続ごとに独立したデータベースになるため、
	// コネクションプールを単一接続に制限する。
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// New は既存のデータベース接続からStoreを生成する。スキーマは適用済みであること。
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}

// PasswordAuthenticate はユーザー名とパスワードの組を検証する。
// rememberは上位の契約互換のために受け取るが、トークンが無状態のため
// ここでは使用しない。失敗時は第2戻り値に理由を返す。
func (s *Store) PasswordAuthenticate(ctx context.Context, username, password string, _ bool) (bool, string) {
	var passwordHash string
	var active bool
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash, active FROM users WHERE username = ?`, username,
	).Scan(&passwordHash, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, reasonBadCredentials
	}
	if err != nil {
		return false, reasonBadCredentials
	}

	if !active {
		return false, reasonInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return false, reasonBadCredentials
	}
	return true, ""
}

// CreateUser はパスワードをbcryptでハッシュ化してユーザーを登録する。
func (s *Store) CreateUser(ctx context.Context, username, password string, active bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, active) VALUES (?, ?, ?)`,
		username, string(hash), active,
	); err != nil {
		return fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}
	return nil
}

// GetSetting は設定名に対応する値を返す。
// キャッシュせず、常にデータベースの現在値を返す。
func (s *Store) GetSetting(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM config WHERE name = ?`, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("設定 %s: %w", name, ErrNoSetting)
	}
	if err != nil {
		return "", fmt.Errorf("設定 %s の取得に失敗: %w", name, err)
	}
	return value, nil
}

// SetSetting は設定値を登録または更新する。
func (s *Store) SetSetting(ctx context.Context, name, value string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO config (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		name, value,
	); err != nil {
		return fmt.Errorf("設定 %s の更新に失敗: %w", name, err)
	}
	return nil
}

// ProjectNames は設定済みプロジェクト名を名前順で返す。
func (s *Store) ProjectNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("プロジェクト一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("プロジェクト名の読み取りに失敗: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("プロジェクト一覧の走査に失敗: %w", err)
	}
	return names, nil
}

// CreateProject はプロジェクトを登録する。
func (s *Store) CreateProject(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name) VALUES (?)`, name,
	); err != nil {
		return fmt.Errorf("プロジェクトの登録に失敗: %w", err)
	}
	return nil
}
