package db

const schemaSQL = `
-- ===========================================================================
-- LISTENING HISTORY
-- ===========================================================================

CREATE TABLE IF NOT EXISTS plays (
  play_id TEXT PRIMARY KEY,
  track_token TEXT NOT NULL,
  title TEXT NOT NULL,
  artist TEXT NOT NULL,
  album TEXT NOT NULL,
  rating TEXT NOT NULL DEFAULT '',
  station_id TEXT NOT NULL DEFAULT '',
  art_url TEXT NOT NULL DEFAULT '',
  duration_sec INTEGER NOT NULL DEFAULT 0,
  started_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_plays_started_at ON plays(started_at);
CREATE INDEX IF NOT EXISTS idx_plays_track ON plays(track_token, started_at);
`
