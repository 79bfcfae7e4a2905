package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hoshinonyaruko/gridsnake/structs"
	_ "github.com/mattn/go-sqlite3"
)

// ErrSessionNotFound is returned by LoadSession for an unknown group.
var ErrSessionNotFound = errors.New("sqlite: session not found")

const createGamesTableSQL = `
CREATE TABLE IF NOT EXISTS Games (
    GroupID TEXT PRIMARY KEY,
    MapWidth INTEGER,
    MapHeight INTEGER,
    CellSize INTEGER,
    LastRefresh INTEGER,
    TickInterval INTEGER,
    Tick INTEGER,
    BoardFull INTEGER
);
`

const createSnakesTableSQL = `
CREATE TABLE IF NOT EXISTS Snakes (
    GroupID TEXT PRIMARY KEY,
    Positions TEXT,
    Length INTEGER,
    Direction TEXT,
    Pending TEXT,
    Vacated TEXT
);
`

const createFoodsTableSQL = `
CREATE TABLE IF NOT EXISTS Foods (
    GroupID TEXT PRIMARY KEY,
    Position TEXT
);
`

// Open opens the database at path and creates the tables.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite只允许一个写者
	db.SetMaxOpenConns(1)
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createGamesTableSQL, createSnakesTableSQL, createFoodsTableSQL} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error executing SQL statement %q: %w", stmt, err)
		}
	}
	return nil
}

func nullable(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// SaveSession writes the whole session in one transaction.
func SaveSession(db *sql.DB, s *structs.Session) error {
	positions, err := json.Marshal(s.State.Actor.Segments)
	if err != nil {
		return err
	}
	target, err := json.Marshal(s.State.Target)
	if err != nil {
		return err
	}
	var pending, vacated sql.NullString
	if s.State.Actor.Pending != nil {
		pending = sql.NullString{String: s.State.Actor.Pending.String(), Valid: true}
	}
	if s.State.Actor.Vacated != nil {
		if vacated, err = nullable(s.State.Actor.Vacated); err != nil {
			return err
		}
	}

	// 开启事务
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec("INSERT OR REPLACE INTO Games (GroupID, MapWidth, MapHeight, CellSize, LastRefresh, TickInterval, Tick, BoardFull) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		s.GroupID, s.Width, s.Height, s.CellSize, s.LastRefresh, s.TickInterval, s.State.Tick, s.State.BoardFull)
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Exec("INSERT OR REPLACE INTO Snakes (GroupID, Positions, Length, Direction, Pending, Vacated) VALUES (?, ?, ?, ?, ?, ?)",
		s.GroupID, string(positions), s.State.Actor.Length, s.State.Actor.Heading.String(), pending, vacated)
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Exec("INSERT OR REPLACE INTO Foods (GroupID, Position) VALUES (?, ?)", s.GroupID, string(target))
	if err != nil {
		tx.Rollback()
		return err
	}

	// 提交事务
	return tx.Commit()
}

// LoadSession reads a session saved by SaveSession.
func LoadSession(db *sql.DB, groupID string) (*structs.Session, error) {
	s := structs.Session{GroupID: groupID}
	err := db.QueryRow("SELECT MapWidth, MapHeight, CellSize, LastRefresh, TickInterval, Tick, BoardFull FROM Games WHERE GroupID = ?", groupID).Scan(
		&s.Width, &s.Height, &s.CellSize, &s.LastRefresh, &s.TickInterval, &s.State.Tick, &s.State.BoardFull,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, groupID)
	}
	if err != nil {
		return nil, err
	}

	var positions, heading string
	var pending, vacated sql.NullString
	err = db.QueryRow("SELECT Positions, Length, Direction, Pending, Vacated FROM Snakes WHERE GroupID = ?", groupID).Scan(
		&positions, &s.State.Actor.Length, &heading, &pending, &vacated,
	)
	if err != nil {
		return nil, fmt.Errorf("load snake of %s: %w", groupID, err)
	}
	if err := json.Unmarshal([]byte(positions), &s.State.Actor.Segments); err != nil {
		return nil, fmt.Errorf("decode snake of %s: %w", groupID, err)
	}
	var ok bool
	if s.State.Actor.Heading, ok = structs.ParseDirection(heading); !ok {
		return nil, fmt.Errorf("snake of %s has invalid direction %q", groupID, heading)
	}
	if pending.Valid {
		p, ok := structs.ParseDirection(pending.String)
		if !ok {
			return nil, fmt.Errorf("snake of %s has invalid pending direction %q", groupID, pending.String)
		}
		s.State.Actor.Pending = &p
	}
	if vacated.Valid {
		var v structs.Cell
		if err := json.Unmarshal([]byte(vacated.String), &v); err != nil {
			return nil, fmt.Errorf("decode vacated cell of %s: %w", groupID, err)
		}
		s.State.Actor.Vacated = &v
	}

	var target string
	if err := db.QueryRow("SELECT Position FROM Foods WHERE GroupID = ?", groupID).Scan(&target); err != nil {
		return nil, fmt.Errorf("load food of %s: %w", groupID, err)
	}
	if err := json.Unmarshal([]byte(target), &s.State.Target); err != nil {
		return nil, fmt.Errorf("decode food of %s: %w", groupID, err)
	}
	return &s, nil
}

// DeleteSession removes every row of groupID.
func DeleteSession(db *sql.DB, groupID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, table := range []string{"Games", "Snakes", "Foods"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE GroupID = ?", groupID); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
