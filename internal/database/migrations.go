package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: api clients, users, tasks, messages, tree state
	{
		`CREATE TABLE api_client (
			id TEXT PRIMARY KEY,
			api_key TEXT UNIQUE NOT NULL,
			description TEXT NOT NULL,
			admin_email TEXT,
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			trusted BOOLEAN NOT NULL DEFAULT FALSE,
			frontend_type TEXT,
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE "user" (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			auth_method TEXT NOT NULL DEFAULT 'local',
			display_name TEXT NOT NULL,
			api_client_id TEXT NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			FOREIGN KEY (api_client_id) REFERENCES api_client(id)
		)`,
		`CREATE UNIQUE INDEX ix_user_username ON "user"(api_client_id, username, auth_method)`,

		`CREATE TABLE task (
			id TEXT PRIMARY KEY,
			payload_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			api_client_id TEXT NOT NULL,
			user_id TEXT,
			frontend_message_id TEXT,
			ack BOOLEAN,
			done BOOLEAN NOT NULL DEFAULT FALSE,
			message_tree_id TEXT,
			parent_message_id TEXT,
			created_at TEXT NOT NULL,
			FOREIGN KEY (api_client_id) REFERENCES api_client(id),
			FOREIGN KEY (user_id) REFERENCES "user"(id)
		)`,
		`CREATE UNIQUE INDEX ix_task_frontend_message_id ON task(api_client_id, frontend_message_id)`,

		`CREATE TABLE message (
			id TEXT PRIMARY KEY,
			parent_id TEXT,
			message_tree_id TEXT NOT NULL,
			task_id TEXT,
			user_id TEXT,
			api_client_id TEXT NOT NULL,
			frontend_message_id TEXT NOT NULL,
			role TEXT NOT NULL,
			payload_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			lang TEXT NOT NULL DEFAULT 'en',
			depth INTEGER NOT NULL DEFAULT 0,
			children_count INTEGER NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			review_result BOOLEAN NOT NULL DEFAULT FALSE,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			FOREIGN KEY (parent_id) REFERENCES message(id),
			FOREIGN KEY (task_id) REFERENCES task(id),
			FOREIGN KEY (user_id) REFERENCES "user"(id),
			FOREIGN KEY (api_client_id) REFERENCES api_client(id)
		)`,
		`CREATE UNIQUE INDEX ix_message_frontend_message_id ON message(api_client_id, frontend_message_id)`,
		`CREATE INDEX ix_message_tree ON message(message_tree_id)`,
		`CREATE INDEX ix_message_parent ON message(parent_id)`,

		`CREATE TABLE message_tree_state (
			message_tree_id TEXT PRIMARY KEY,
			goal_tree_size INTEGER NOT NULL,
			max_depth INTEGER NOT NULL,
			max_children_count INTEGER NOT NULL,
			state TEXT NOT NULL,
			active BOOLEAN NOT NULL,
			FOREIGN KEY (message_tree_id) REFERENCES message(id)
		)`,
		`CREATE INDEX ix_message_tree_state_state ON message_tree_state(state)`,
	},
}
