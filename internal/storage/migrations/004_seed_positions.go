package migrations

import "gorm.io/gorm"

// migration004Up seeds the fixed set of electable positions. The ballot
// catalog is effectively static during a voting session; candidates are
// managed through the admin panel.
func migration004Up(db *gorm.DB) error {
	positionsSQL := `
        INSERT INTO positions (id, zone, title, display_order) VALUES
            ('770e8400-e29b-41d4-a716-446655440001', 'CENTRAL ZONE', 'President', 1),
            ('770e8400-e29b-41d4-a716-446655440002', 'CENTRAL ZONE', 'Vice President 3', 2),
            ('770e8400-e29b-41d4-a716-446655440003', 'CENTRAL ZONE', 'National Auditor', 3),
            ('770e8400-e29b-41d4-a716-446655440004', 'CENTRAL ZONE', 'National Publicity Secretary', 4),
            ('770e8400-e29b-41d4-a716-446655440005', 'CENTRAL ZONE', 'National Assistant Secretary', 5),
            ('770e8400-e29b-41d4-a716-446655440006', 'EASTERN ZONE', 'Vice President 2', 6),
            ('770e8400-e29b-41d4-a716-446655440007', 'EASTERN ZONE', 'National Secretary', 7),
            ('770e8400-e29b-41d4-a716-446655440008', 'EASTERN ZONE', 'National Legal Adviser', 8),
            ('770e8400-e29b-41d4-a716-446655440009', 'EASTERN ZONE', 'National Financial Secretary', 9),
            ('770e8400-e29b-41d4-a716-446655440010', 'EASTERN ZONE', 'National Welfare Secretary', 10),
            ('770e8400-e29b-41d4-a716-446655440011', 'WESTERN ZONE', 'Vice President 1', 11),
            ('770e8400-e29b-41d4-a716-446655440012', 'WESTERN ZONE', 'National Organising Secretary', 12),
            ('770e8400-e29b-41d4-a716-446655440013', 'WESTERN ZONE', 'National Treasurer', 13),
            ('770e8400-e29b-41d4-a716-446655440014', 'WESTERN ZONE', 'National Women Affairs Secretary', 14)
        ON CONFLICT (id) DO NOTHING
    `

	return db.Exec(positionsSQL).Error
}

// migration004Down removes the seeded positions
func migration004Down(db *gorm.DB) error {
	return db.Exec(`
        DELETE FROM positions
        WHERE id::text LIKE '770e8400-e29b-41d4-a716-4466554400%'
    `).Error
}
