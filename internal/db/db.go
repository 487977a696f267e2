package db

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

func InitDB(dbURL string) *sql.DB {
	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		log.Fatal("failed to open database:", err)
	}

	err = db.Ping()
	if err != nil {
		log.Fatal("database is not responding:", err)
	}

	log.Println("connected to database")
	return db
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_email (email),
			UNIQUE KEY uniq_username (username)
		);`,
		`CREATE TABLE IF NOT EXISTS wallets (
			user_id INT PRIMARY KEY,
			balance BIGINT NOT NULL DEFAULT 0,
			upi_id VARCHAR(100),
			last_updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS wallet_transactions (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id CHAR(36) NOT NULL,
			user_id INT NOT NULL,
			type VARCHAR(20) NOT NULL,
			amount BIGINT NOT NULL,
			status VARCHAR(20) NOT NULL,
			description VARCHAR(255),
			reference_id CHAR(36),
			created_at DATETIME NOT NULL,
			UNIQUE KEY uniq_txn_id (id),
			INDEX idx_user_id (user_id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS deposit_requests (
			id CHAR(36) PRIMARY KEY,
			user_id INT NOT NULL,
			amount BIGINT NOT NULL,
			evidence TEXT,
			status VARCHAR(20) NOT NULL,
			created_at DATETIME NOT NULL,
			resolved_at DATETIME,
			resolved_by INT,
			INDEX idx_status (status),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS withdrawal_requests (
			id CHAR(36) PRIMARY KEY,
			user_id INT NOT NULL,
			amount BIGINT NOT NULL,
			upi_id VARCHAR(100),
			status VARCHAR(20) NOT NULL,
			created_at DATETIME NOT NULL,
			resolved_at DATETIME,
			resolved_by INT,
			INDEX idx_status (status),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS tournaments (
			id CHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			entry_fee BIGINT NOT NULL,
			prize_pool BIGINT NOT NULL,
			max_teams INT NOT NULL,
			status VARCHAR(20) NOT NULL,
			prize_sent TINYINT(1) NOT NULL DEFAULT 0,
			room_id VARCHAR(100),
			room_pass VARCHAR(100),
			start_time DATETIME NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tournament_participants (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			tournament_id CHAR(36) NOT NULL,
			team_id VARCHAR(100) NOT NULL,
			team_name VARCHAR(255) NOT NULL,
			owner_user_id INT NOT NULL,
			owner_email VARCHAR(100) NOT NULL,
			matchpoints INT NOT NULL DEFAULT 0,
			joined_at DATETIME NOT NULL,
			UNIQUE KEY uniq_team (tournament_id, team_id),
			FOREIGN KEY (tournament_id) REFERENCES tournaments(id) ON DELETE CASCADE
		);`,
	}

	for _, q := range queries {
		_, err := db.Exec(q)
		if err != nil {
			log.Fatal("migration failed:", err)
		}
	}
	log.Println("migrations complete")
}
