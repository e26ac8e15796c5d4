package sqlite

const schema = `
-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

-- Bugs table. The UNIQUE(project_id, number) constraint is the backstop
-- for sequence allocation: a racing insert fails loudly instead of
-- silently reusing a number.
CREATE TABLE IF NOT EXISTS bugs (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    number INTEGER NOT NULL CHECK(number > 0),
    title TEXT NOT NULL CHECK(length(title) <= 500),
    description TEXT NOT NULL DEFAULT '',
    steps_to_reproduce TEXT NOT NULL DEFAULT '',
    expected_result TEXT NOT NULL DEFAULT '',
    actual_result TEXT NOT NULL DEFAULT '',
    severity TEXT NOT NULL DEFAULT 'medium',
    priority TEXT NOT NULL DEFAULT 'medium',
    status TEXT NOT NULL DEFAULT 'new',
    resolution TEXT NOT NULL DEFAULT 'todo',
    reporter TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE(project_id, number)
);

-- Per-project sequence counters. next is the next unclaimed number.
CREATE TABLE IF NOT EXISTS bug_sequences (
    project_id TEXT PRIMARY KEY REFERENCES projects(id),
    next INTEGER NOT NULL CHECK(next > 0)
);

-- Attachments table. UNIQUE(bug_id, url) makes re-attach runs idempotent.
CREATE TABLE IF NOT EXISTS attachments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bug_id TEXT NOT NULL REFERENCES bugs(id) ON DELETE CASCADE,
    kind TEXT NOT NULL DEFAULT 'link',
    url TEXT NOT NULL CHECK(length(url) > 0),
    created_at TEXT NOT NULL,
    UNIQUE(bug_id, url)
);

-- Comments table
CREATE TABLE IF NOT EXISTS comments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bug_id TEXT NOT NULL REFERENCES bugs(id) ON DELETE CASCADE,
    author TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bugs_project ON bugs(project_id);
CREATE INDEX IF NOT EXISTS idx_bugs_status ON bugs(status);
CREATE INDEX IF NOT EXISTS idx_bugs_severity ON bugs(severity);
CREATE INDEX IF NOT EXISTS idx_attachments_bug ON attachments(bug_id);
CREATE INDEX IF NOT EXISTS idx_comments_bug ON comments(bug_id);
`
