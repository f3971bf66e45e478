package profile

const (
	userSQL = `
		SELECT COALESCE(first_name, 'User'), COALESCE(language, 'en'),
			COALESCE(fitness_goal, ''), COALESCE(fitness_level, 'BEGINNER'),
			COALESCE(height_cm, 0), COALESCE(current_weight_kg, 0),
			COALESCE(target_weight_kg, 0), COALESCE(gender, '')
		FROM users
		WHERE id = $1
	`

	tierSQL = `
		SELECT tier
		FROM subscriptions
		WHERE user_id = $1
	`

	recentWorkoutsSQL = `
		SELECT COALESCE(w.name_en, l.manual_name, 'Workout'), l.completed_at,
			COALESCE(l.duration_minutes, 0)
		FROM workout_logs l
		LEFT JOIN workouts w ON w.id = l.workout_id
		WHERE l.user_id = $1 AND l.completed_at IS NOT NULL
		ORDER BY l.completed_at DESC
		LIMIT 3
	`

	activePlanSQL = `
		SELECT name_en
		FROM workout_plans
		WHERE user_id = $1 AND is_active = true
		LIMIT 1
	`

	preferencesSQL = `
		SELECT injuries, allergies, health_conditions
		FROM user_ai_preferences
		WHERE user_id = $1
	`

	equipmentSQL = `
		SELECT equipment
		FROM user_equipment
		WHERE user_id = $1
	`
)
