package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    email TEXT,
    photo_url TEXT,
    active_pair_id TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Pairs. Members is an ordered array of user ids, never longer than 2.
CREATE TABLE IF NOT EXISTS pairs (
    id TEXT PRIMARY KEY,
    members TEXT[] NOT NULL,
    owner_id TEXT NOT NULL,
    invite_code TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (cardinality(members) BETWEEN 1 AND 2)
);

CREATE INDEX IF NOT EXISTS idx_pairs_invite_code ON pairs(invite_code);

-- Restaurants. One row per (pair, place) when a place id is known.
CREATE TABLE IF NOT EXISTS restaurants (
    id TEXT PRIMARY KEY,
    pair_id TEXT NOT NULL,
    place_id TEXT,
    name TEXT NOT NULL,
    address TEXT,
    lat DOUBLE PRECISION,
    lng DOUBLE PRECISION,
    photo_url TEXT,
    photo_reference TEXT,
    added_by TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_restaurants_pair_id ON restaurants(pair_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_restaurants_pair_place
    ON restaurants(pair_id, place_id) WHERE place_id IS NOT NULL;

-- Votes. The composite primary key is the upsert identity: concurrent casts
-- by the same user on the same restaurant collapse onto one row.
CREATE TABLE IF NOT EXISTS votes (
    pair_id TEXT NOT NULL,
    restaurant_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    vote_type TEXT NOT NULL CHECK (vote_type IN ('like', 'love', 'dislike')),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (pair_id, restaurant_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_pair_id ON votes(pair_id);

-- Audit events
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    pair_id TEXT,
    event_name TEXT NOT NULL,
    payload JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_events_pair_id ON events(pair_id);
`
