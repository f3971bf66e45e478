package catalog

// Food is one row from the food database, macros per serving.
type Food struct {
	ID           string   `json:"id,omitempty"`
	NameEn       string   `json:"name_en"`
	NameAr       string   `json:"name_ar"`
	BrandEn      string   `json:"brand_en,omitempty"`
	BrandAr      string   `json:"brand_ar,omitempty"`
	Calories     float64  `json:"calories"`
	ProteinG     float64  `json:"protein_g"`
	CarbsG       float64  `json:"carbs_g"`
	FatG         float64  `json:"fat_g"`
	ServingSizeG float64  `json:"serving_size_g"`
	ServingUnit  string   `json:"serving_unit"`
	IsEgyptian   bool     `json:"is_egyptian,omitempty"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Exercise is one row from the exercise database.
type Exercise struct {
	ID               string   `json:"id,omitempty"`
	NameEn           string   `json:"name_en"`
	NameAr           string   `json:"name_ar"`
	DescriptionEn    string   `json:"description_en,omitempty"`
	DescriptionAr    string   `json:"description_ar,omitempty"`
	Category         string   `json:"category,omitempty"`
	PrimaryMuscle    string   `json:"primary_muscle"`
	SecondaryMuscles []string `json:"secondary_muscles,omitempty"`
	Difficulty       string   `json:"difficulty"`
	Equipment        []string `json:"equipment,omitempty"`
	DefaultSets      int      `json:"default_sets,omitempty"`
	DefaultReps      string   `json:"default_reps,omitempty"`
	InstructionsEn   []string `json:"instructions_en,omitempty"`
	InstructionsAr   []string `json:"instructions_ar,omitempty"`
	TipsEn           []string `json:"tips_en,omitempty"`
	TipsAr           []string `json:"tips_ar,omitempty"`
	YoutubeVideoID   string   `json:"youtube_video_id,omitempty"`
}

// FAQItem is one question/answer pair attached to an exercise.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQMatch is a question matched against a user query, with the
// exercise it belongs to.
type FAQMatch struct {
	ExerciseName string `json:"exercise_name"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
}

// Program is one curated trainer program template.
type Program struct {
	ID            string `json:"id"`
	NameEn        string `json:"name_en"`
	NameAr        string `json:"name_ar"`
	DescriptionEn string `json:"description_en,omitempty"`
	DescriptionAr string `json:"description_ar,omitempty"`
	DurationWeeks int    `json:"duration_weeks"`
}
