package repository

// migration holds a single schema migration. Statements run in order; each
// one is sent separately so drivers without multi-statement support work.
type migration struct {
	version int
	stmts   []string
}

// dialect captures the SQL differences between the supported engines.
type dialect struct {
	name         string
	driver       string
	insertIgnore string
	versionTable string
	migrations   []migration
}

var sqliteDialect = dialect{
	name:         "sqlite",
	driver:       "sqlite",
	insertIgnore: "INSERT OR IGNORE",
	versionTable: `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`,
	migrations: []migration{
		{
			version: 1,
			stmts: []string{
				`CREATE TABLE IF NOT EXISTS entities (
					id           INTEGER PRIMARY KEY AUTOINCREMENT,
					operator_id  TEXT NOT NULL,
					name         TEXT NOT NULL,
					category     TEXT NOT NULL DEFAULT '',
					subcategory  TEXT NOT NULL DEFAULT '',
					address      TEXT NOT NULL DEFAULT '',
					target       TEXT NOT NULL DEFAULT '',
					signature    TEXT NOT NULL DEFAULT '',
					strengths    TEXT NOT NULL DEFAULT '',
					keywords     TEXT NOT NULL DEFAULT '',
					review_url   TEXT NOT NULL DEFAULT '',
					insta_url    TEXT NOT NULL DEFAULT '',
					created_at   DATETIME NOT NULL,
					updated_at   DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_entities_operator ON entities(operator_id)`,
				`CREATE TABLE IF NOT EXISTS checklists (
					entity_id              INTEGER PRIMARY KEY,
					has_keywords           INTEGER NOT NULL DEFAULT 0,
					has_review_url         INTEGER NOT NULL DEFAULT 0,
					has_insta_url          INTEGER NOT NULL DEFAULT 0,
					has_place_desc         INTEGER NOT NULL DEFAULT 0,
					has_menu_guide         INTEGER NOT NULL DEFAULT 0,
					has_way_guide          INTEGER NOT NULL DEFAULT 0,
					has_parking_guide      INTEGER NOT NULL DEFAULT 0,
					has_hours              INTEGER NOT NULL DEFAULT 0,
					has_phone              INTEGER NOT NULL DEFAULT 0,
					has_address            INTEGER NOT NULL DEFAULT 0,
					has_news               INTEGER NOT NULL DEFAULT 0,
					last_review_reply_at   DATETIME,
					last_insta_caption_at  DATETIME,
					last_blog_post_at      DATETIME,
					last_event_plan_at     DATETIME,
					last_place_qa_at       DATETIME,
					last_ad_analysis_at    DATETIME,
					last_place_news_at     DATETIME,
					last_scan_at           DATETIME,
					review_sync_status     TEXT NOT NULL DEFAULT '',
					review_sync_at         DATETIME,
					review_unreplied_count INTEGER NOT NULL DEFAULT -1,
					review_sync_nonce      TEXT NOT NULL DEFAULT '',
					scan_sync_status       TEXT NOT NULL DEFAULT '',
					scan_sync_at           DATETIME,
					scan_sync_nonce        TEXT NOT NULL DEFAULT ''
				)`,
				`CREATE TABLE IF NOT EXISTS linked_items (
					id                   INTEGER PRIMARY KEY AUTOINCREMENT,
					entity_id            INTEGER NOT NULL,
					alias                TEXT NOT NULL,
					mall_name            TEXT NOT NULL DEFAULT '',
					url                  TEXT NOT NULL,
					memo                 TEXT NOT NULL DEFAULT '',
					pinned               INTEGER NOT NULL DEFAULT 0,
					price_sync_status    TEXT NOT NULL DEFAULT '',
					price_sync_at        DATETIME,
					price_sync_nonce     TEXT NOT NULL DEFAULT '',
					last_confirmed_at    DATETIME,
					last_confirmed_price INTEGER,
					last_confirmed_title TEXT NOT NULL DEFAULT '',
					last_confirmed_url   TEXT NOT NULL DEFAULT '',
					created_at           DATETIME NOT NULL,
					updated_at           DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_linked_items_entity ON linked_items(entity_id)`,
				`CREATE TABLE IF NOT EXISTS todo_events (
					id          INTEGER PRIMARY KEY AUTOINCREMENT,
					entity_id   INTEGER NOT NULL,
					operator_id TEXT NOT NULL,
					todo_group  TEXT NOT NULL,
					todo_text   TEXT NOT NULL DEFAULT '',
					status      TEXT NOT NULL,
					created_at  DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_todo_events_lookup ON todo_events(operator_id, entity_id, created_at)`,
				`CREATE TABLE IF NOT EXISTS history (
					id          INTEGER PRIMARY KEY AUTOINCREMENT,
					entity_id   INTEGER NOT NULL,
					operator_id TEXT NOT NULL,
					feature     TEXT NOT NULL,
					title       TEXT NOT NULL DEFAULT '',
					input_text  TEXT NOT NULL DEFAULT '',
					output_text TEXT NOT NULL DEFAULT '',
					created_at  DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_history_lookup ON history(operator_id, entity_id, id)`,
				`CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at)`,
			},
		},
	},
}

var mysqlDialect = dialect{
	name:         "mysql",
	driver:       "mysql",
	insertIgnore: "INSERT IGNORE",
	versionTable: `CREATE TABLE IF NOT EXISTS schema_version (version INT NOT NULL) ENGINE=InnoDB`,
	migrations: []migration{
		{
			version: 1,
			stmts: []string{
				`CREATE TABLE IF NOT EXISTS entities (
					id           BIGINT AUTO_INCREMENT PRIMARY KEY,
					operator_id  VARCHAR(100) NOT NULL,
					name         VARCHAR(100) NOT NULL,
					category     VARCHAR(50) NOT NULL DEFAULT '',
					subcategory  VARCHAR(50) NOT NULL DEFAULT '',
					address      VARCHAR(300) NOT NULL DEFAULT '',
					target       VARCHAR(300) NOT NULL DEFAULT '',
					signature    VARCHAR(1000) NOT NULL DEFAULT '',
					strengths    VARCHAR(1000) NOT NULL DEFAULT '',
					keywords     VARCHAR(500) NOT NULL DEFAULT '',
					review_url   VARCHAR(500) NOT NULL DEFAULT '',
					insta_url    VARCHAR(500) NOT NULL DEFAULT '',
					created_at   DATETIME(6) NOT NULL,
					updated_at   DATETIME(6) NOT NULL,
					INDEX idx_entities_operator (operator_id)
				) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
				`CREATE TABLE IF NOT EXISTS checklists (
					entity_id              BIGINT PRIMARY KEY,
					has_keywords           TINYINT(1) NOT NULL DEFAULT 0,
					has_review_url         TINYINT(1) NOT NULL DEFAULT 0,
					has_insta_url          TINYINT(1) NOT NULL DEFAULT 0,
					has_place_desc         TINYINT(1) NOT NULL DEFAULT 0,
					has_menu_guide         TINYINT(1) NOT NULL DEFAULT 0,
					has_way_guide          TINYINT(1) NOT NULL DEFAULT 0,
					has_parking_guide      TINYINT(1) NOT NULL DEFAULT 0,
					has_hours              TINYINT(1) NOT NULL DEFAULT 0,
					has_phone              TINYINT(1) NOT NULL DEFAULT 0,
					has_address            TINYINT(1) NOT NULL DEFAULT 0,
					has_news               TINYINT(1) NOT NULL DEFAULT 0,
					last_review_reply_at   DATETIME(6) NULL,
					last_insta_caption_at  DATETIME(6) NULL,
					last_blog_post_at      DATETIME(6) NULL,
					last_event_plan_at     DATETIME(6) NULL,
					last_place_qa_at       DATETIME(6) NULL,
					last_ad_analysis_at    DATETIME(6) NULL,
					last_place_news_at     DATETIME(6) NULL,
					last_scan_at           DATETIME(6) NULL,
					review_sync_status     VARCHAR(16) NOT NULL DEFAULT '',
					review_sync_at         DATETIME(6) NULL,
					review_unreplied_count INT NOT NULL DEFAULT -1,
					review_sync_nonce      VARCHAR(128) NOT NULL DEFAULT '',
					scan_sync_status       VARCHAR(16) NOT NULL DEFAULT '',
					scan_sync_at           DATETIME(6) NULL,
					scan_sync_nonce        VARCHAR(128) NOT NULL DEFAULT ''
				) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
				`CREATE TABLE IF NOT EXISTS linked_items (
					id                   BIGINT AUTO_INCREMENT PRIMARY KEY,
					entity_id            BIGINT NOT NULL,
					alias                VARCHAR(100) NOT NULL,
					mall_name            VARCHAR(100) NOT NULL DEFAULT '',
					url                  VARCHAR(500) NOT NULL,
					memo                 VARCHAR(300) NOT NULL DEFAULT '',
					pinned               TINYINT(1) NOT NULL DEFAULT 0,
					price_sync_status    VARCHAR(16) NOT NULL DEFAULT '',
					price_sync_at        DATETIME(6) NULL,
					price_sync_nonce     VARCHAR(128) NOT NULL DEFAULT '',
					last_confirmed_at    DATETIME(6) NULL,
					last_confirmed_price BIGINT NULL,
					last_confirmed_title VARCHAR(200) NOT NULL DEFAULT '',
					last_confirmed_url   VARCHAR(500) NOT NULL DEFAULT '',
					created_at           DATETIME(6) NOT NULL,
					updated_at           DATETIME(6) NOT NULL,
					INDEX idx_linked_items_entity (entity_id)
				) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
				`CREATE TABLE IF NOT EXISTS todo_events (
					id          BIGINT AUTO_INCREMENT PRIMARY KEY,
					entity_id   BIGINT NOT NULL,
					operator_id VARCHAR(100) NOT NULL,
					todo_group  VARCHAR(50) NOT NULL,
					todo_text   VARCHAR(500) NOT NULL DEFAULT '',
					status      VARCHAR(16) NOT NULL,
					created_at  DATETIME(6) NOT NULL,
					INDEX idx_todo_events_lookup (operator_id, entity_id, created_at)
				) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
				`CREATE TABLE IF NOT EXISTS history (
					id          BIGINT AUTO_INCREMENT PRIMARY KEY,
					entity_id   BIGINT NOT NULL,
					operator_id VARCHAR(100) NOT NULL,
					feature     VARCHAR(50) NOT NULL,
					title       VARCHAR(200) NOT NULL DEFAULT '',
					input_text  TEXT NOT NULL,
					output_text MEDIUMTEXT NOT NULL,
					created_at  DATETIME(6) NOT NULL,
					INDEX idx_history_lookup (operator_id, entity_id, id),
					INDEX idx_history_created (created_at)
				) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			},
		},
	},
}
