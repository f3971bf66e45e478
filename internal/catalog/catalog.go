package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Client reads the food, exercise, and program catalogs from
// PostgreSQL. All searches are case-insensitive substring matches.
type Client struct {
	db *pgxpool.Pool
}

// NewClient creates a catalog client on the given pool.
func NewClient(db *pgxpool.Pool) *Client {
	return &Client{db: db}
}

// SearchFoods finds foods whose name contains the query in either
// language, or whose tags contain it exactly, cheapest first.
func (c *Client) SearchFoods(ctx context.Context, query string, limit int) ([]Food, error) {
	rows, err := c.db.Query(ctx, searchFoodsSQL,
		"%"+query+"%", strings.ToLower(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	defer rows.Close()

	return scanFoods(rows)
}

// SearchSupplements is SearchFoods restricted to the supplement
// category.
func (c *Client) SearchSupplements(ctx context.Context, query string, limit int) ([]Food, error) {
	rows, err := c.db.Query(ctx, searchSupplementsSQL,
		"%"+query+"%", strings.ToLower(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search supplements: %w", err)
	}
	defer rows.Close()

	return scanFoods(rows)
}

// SearchExercises finds exercises whose name contains the query in
// either language, or whose tags contain it exactly.
func (c *Client) SearchExercises(ctx context.Context, query string, limit int) ([]Exercise, error) {
	rows, err := c.db.Query(ctx, searchExercisesSQL,
		"%"+query+"%", strings.ToLower(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search exercises: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var ex Exercise
		if err := rows.Scan(&ex.ID, &ex.NameEn, &ex.NameAr, &ex.DescriptionEn,
			&ex.DescriptionAr, &ex.Category, &ex.PrimaryMuscle, &ex.SecondaryMuscles,
			&ex.Difficulty, &ex.Equipment, &ex.DefaultSets, &ex.DefaultReps,
			&ex.InstructionsEn, &ex.InstructionsAr, &ex.TipsEn, &ex.TipsAr,
			&ex.YoutubeVideoID); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

// SearchFAQs finds exercise FAQ entries whose stored question text
// contains every keyword. It returns the individual matched pairs, in
// row order.
func (c *Client) SearchFAQs(ctx context.Context, keywords []string, arabic bool) ([]FAQMatch, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	base := faqSearchEnBase
	col := "faqs_en"
	if arabic {
		base = faqSearchArBase
		col = "faqs_ar"
	}

	var sb strings.Builder
	sb.WriteString(base)
	args := make([]any, 0, len(keywords))
	for i, kw := range keywords {
		fmt.Fprintf(&sb, " AND %s::text ILIKE $%d", col, i+1)
		args = append(args, "%"+kw+"%")
	}
	sb.WriteString(" LIMIT 3")

	rows, err := c.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search faqs: %w", err)
	}
	defer rows.Close()

	var matches []FAQMatch
	for rows.Next() {
		var nameEn, nameAr string
		var raw []byte
		if err := rows.Scan(&nameEn, &nameAr, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan faq row: %w", err)
		}

		var items []FAQItem
		if err := json.Unmarshal(raw, &items); err != nil {
			continue // malformed FAQ payload, skip the row
		}

		name := nameEn
		if arabic {
			name = nameAr
		}
		for _, item := range items {
			q := strings.ToLower(item.Question)
			for _, kw := range keywords {
				if strings.Contains(q, kw) {
					matches = append(matches, FAQMatch{
						ExerciseName: name,
						Question:     item.Question,
						Answer:       item.Answer,
					})
					break
				}
			}
		}
	}
	return matches, rows.Err()
}

// ListPrograms returns the newest active program templates.
func (c *Client) ListPrograms(ctx context.Context, limit int) ([]Program, error) {
	rows, err := c.db.Query(ctx, listProgramsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var programs []Program
	for rows.Next() {
		var p Program
		if err := rows.Scan(&p.ID, &p.NameEn, &p.NameAr, &p.DescriptionEn,
			&p.DescriptionAr, &p.DurationWeeks); err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// BroadFoodSearch matches any of the given words against food names.
// Used as the relaxed fallback when a direct search found nothing.
func (c *Client) BroadFoodSearch(ctx context.Context, words []string, limit int) ([]Food, error) {
	if len(words) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT id, name_en, name_ar, COALESCE(brand_en, ''), COALESCE(brand_ar, ''),
			calories, protein_g, carbs_g, fat_g, serving_size_g, serving_unit,
			is_egyptian, COALESCE(category, ''), tags
		FROM foods
		WHERE `)
	args := make([]any, 0, len(words)+1)
	for i, word := range words {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		fmt.Fprintf(&sb, "name_en ILIKE $%d OR name_ar ILIKE $%d", i+1, i+1)
		args = append(args, "%"+word+"%")
	}
	fmt.Fprintf(&sb, " LIMIT $%d", len(words)+1)
	args = append(args, limit)

	rows, err := c.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to broad-search foods: %w", err)
	}
	defer rows.Close()

	return scanFoods(rows)
}

// BroadExerciseSearch matches any of the given words against exercise
// names.
func (c *Client) BroadExerciseSearch(ctx context.Context, words []string, limit int) ([]Exercise, error) {
	if len(words) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT id, name_en, name_ar, primary_muscle, difficulty
		FROM exercises
		WHERE `)
	args := make([]any, 0, len(words)+1)
	for i, word := range words {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		fmt.Fprintf(&sb, "name_en ILIKE $%d OR name_ar ILIKE $%d", i+1, i+1)
		args = append(args, "%"+word+"%")
	}
	fmt.Fprintf(&sb, " LIMIT $%d", len(words)+1)
	args = append(args, limit)

	rows, err := c.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to broad-search exercises: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var ex Exercise
		if err := rows.Scan(&ex.ID, &ex.NameEn, &ex.NameAr, &ex.PrimaryMuscle, &ex.Difficulty); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

func scanFoods(rows pgx.Rows) ([]Food, error) {
	var foods []Food
	for rows.Next() {
		var f Food
		if err := rows.Scan(&f.ID, &f.NameEn, &f.NameAr, &f.BrandEn, &f.BrandAr,
			&f.Calories, &f.ProteinG, &f.CarbsG, &f.FatG, &f.ServingSizeG,
			&f.ServingUnit, &f.IsEgyptian, &f.Category, &f.Tags); err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}
