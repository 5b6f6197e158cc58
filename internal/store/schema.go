package store

// Schema v1 - Initial database schema
//
// Aggregate columns (total_performances, total_visits,
// performance_count, last_performed, last_visited) are maintained by
// the stats engine only, never written directly by CRUD callers.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Songs in the performer's repertoire
CREATE TABLE IF NOT EXISTS songs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  artist TEXT NOT NULL DEFAULT '',
  norm_key TEXT NOT NULL,
  reference_key TEXT,
  preferred_key TEXT,
  lyrics TEXT,
  total_performances INTEGER NOT NULL DEFAULT 0,
  last_performed INTEGER,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_songs_norm_key ON songs(norm_key);

-- Karaoke venues
CREATE TABLE IF NOT EXISTS venues (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  norm_key TEXT NOT NULL,
  address TEXT,
  cost TEXT,
  room_type TEXT,
  hours TEXT,
  notes TEXT,
  total_visits INTEGER NOT NULL DEFAULT 0,
  last_visited INTEGER,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_venues_norm_key ON venues(norm_key);

-- Visits to a venue (one row per session)
-- counted is set when the visit's first-ever performance bumps the
-- venue's total_visits; deleting performances later must not allow a
-- re-logged performance to bump the venue again
CREATE TABLE IF NOT EXISTS visits (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  venue_id INTEGER NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
  ts INTEGER NOT NULL,
  end_ts INTEGER,
  notes TEXT,
  amount_spent REAL,
  is_active INTEGER NOT NULL DEFAULT 0,
  counted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_visits_venue ON visits(venue_id);
CREATE INDEX IF NOT EXISTS idx_visits_ts ON visits(ts, id);

-- Individual song performances during a visit
CREATE TABLE IF NOT EXISTS performances (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  visit_id INTEGER NOT NULL REFERENCES visits(id) ON DELETE CASCADE,
  song_id INTEGER NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
  key_adjustment INTEGER NOT NULL DEFAULT 0,
  notes TEXT,
  ts INTEGER NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_performances_visit ON performances(visit_id);
CREATE INDEX IF NOT EXISTS idx_performances_song ON performances(song_id);

-- Per-venue song details (catalogue code, venue key, overrides)
-- key_adjustment NULL means "not yet determined", distinct from 0
CREATE TABLE IF NOT EXISTS song_venue_info (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  song_id INTEGER NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
  venue_id INTEGER NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
  venues_song_id TEXT,
  venue_key TEXT,
  key_adjustment INTEGER,
  lyrics TEXT,
  performance_count INTEGER NOT NULL DEFAULT 0,
  last_performed INTEGER,
  UNIQUE(song_id, venue_id)
);

CREATE INDEX IF NOT EXISTS idx_song_venue_info_venue ON song_venue_info(venue_id);
`
