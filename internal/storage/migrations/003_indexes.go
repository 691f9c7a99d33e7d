package migrations

import "gorm.io/gorm"

// migration003Up creates performance indexes
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_delegates_zone ON delegates(zone)",
		"CREATE INDEX IF NOT EXISTS idx_delegates_has_voted ON delegates(has_voted)",

		"CREATE INDEX IF NOT EXISTS idx_positions_display_order ON positions(display_order)",
		"CREATE INDEX IF NOT EXISTS idx_positions_zone ON positions(zone)",

		"CREATE INDEX IF NOT EXISTS idx_candidates_position ON candidates(position_id)",
		"CREATE INDEX IF NOT EXISTS idx_candidates_display_order ON candidates(position_id, display_order)",

		"CREATE INDEX IF NOT EXISTS idx_votes_position ON votes(position_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_candidate ON votes(candidate_id)",
		"CREATE INDEX IF NOT EXISTS idx_votes_created_at ON votes(created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the performance indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"DROP INDEX IF EXISTS idx_delegates_zone",
		"DROP INDEX IF EXISTS idx_delegates_has_voted",
		"DROP INDEX IF EXISTS idx_positions_display_order",
		"DROP INDEX IF EXISTS idx_positions_zone",
		"DROP INDEX IF EXISTS idx_candidates_position",
		"DROP INDEX IF EXISTS idx_candidates_display_order",
		"DROP INDEX IF EXISTS idx_votes_position",
		"DROP INDEX IF EXISTS idx_votes_candidate",
		"DROP INDEX IF EXISTS idx_votes_created_at",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}
