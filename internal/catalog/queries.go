package catalog

const (
	searchFoodsSQL = `
		SELECT id, name_en, name_ar, COALESCE(brand_en, ''), COALESCE(brand_ar, ''),
			calories, protein_g, carbs_g, fat_g, serving_size_g, serving_unit,
			is_egyptian, COALESCE(category, ''), tags
		FROM foods
		WHERE name_en ILIKE $1 OR name_ar ILIKE $1 OR $2 = ANY(tags)
		ORDER BY calories ASC
		LIMIT $3
	`

	searchSupplementsSQL = `
		SELECT id, name_en, name_ar, COALESCE(brand_en, ''), COALESCE(brand_ar, ''),
			calories, protein_g, carbs_g, fat_g, serving_size_g, serving_unit,
			is_egyptian, COALESCE(category, ''), tags
		FROM foods
		WHERE category ILIKE '%supplement%'
			AND (name_en ILIKE $1 OR name_ar ILIKE $1 OR $2 = ANY(tags))
		LIMIT $3
	`

	searchExercisesSQL = `
		SELECT id, name_en, name_ar, COALESCE(description_en, ''), COALESCE(description_ar, ''),
			COALESCE(category, ''), primary_muscle, secondary_muscles, difficulty, equipment,
			default_sets, COALESCE(default_reps, ''), instructions_en, instructions_ar,
			tips_en, tips_ar, COALESCE(youtube_video_id, '')
		FROM exercises
		WHERE name_en ILIKE $1 OR name_ar ILIKE $1 OR $2 = ANY(tags)
		LIMIT $3
	`

	listProgramsSQL = `
		SELECT id, name_en, COALESCE(name_ar, ''), COALESCE(description_en, ''),
			COALESCE(description_ar, ''), duration_weeks
		FROM trainer_programs
		WHERE status = 'ACTIVE' AND is_template = true
		ORDER BY created_at DESC
		LIMIT $1
	`

	// faq searches are built dynamically because the keyword count varies
	faqSearchEnBase = `
		SELECT name_en, name_ar, faqs_en
		FROM exercises
		WHERE faqs_en IS NOT NULL`

	faqSearchArBase = `
		SELECT name_en, name_ar, faqs_ar
		FROM exercises
		WHERE faqs_ar IS NOT NULL`
)
