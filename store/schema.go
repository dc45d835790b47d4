package store

const schema = `
CREATE TABLE IF NOT EXISTS programs (
  digest TEXT NOT NULL PRIMARY KEY,
  filename TEXT NOT NULL DEFAULT '',
  bytecode BLOB NOT NULL,
  created_at INTEGER NOT NULL
);
`
