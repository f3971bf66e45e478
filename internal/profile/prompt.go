package profile

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt renders the user context into the coaching system
// prompt. Missing profile fields are stated explicitly so the model
// never invents them; injuries are flagged as hard safety constraints.
func BuildSystemPrompt(uc *UserContext, arabic bool) string {
	lang := "Respond in English. User prefers English."
	if arabic {
		lang = "Respond in Arabic (Egyptian dialect). User prefers Arabic."
	}

	goal := strings.ToLower(strings.ReplaceAll(uc.FitnessGoal, "_", " "))
	if goal == "" {
		goal = "general fitness"
	}

	recent := "None recently"
	if len(uc.RecentWorkouts) > 0 {
		parts := make([]string, 0, len(uc.RecentWorkouts))
		for _, w := range uc.RecentWorkouts {
			dur := "?"
			if w.DurationMinutes > 0 {
				dur = fmt.Sprintf("%d", w.DurationMinutes)
			}
			parts = append(parts, fmt.Sprintf("%s (%smin)", w.Name, dur))
		}
		recent = strings.Join(parts, ", ")
	}

	injuries := "No injuries reported."
	if len(uc.Injuries) > 0 {
		injuries = fmt.Sprintf("IMPORTANT: User has injuries/conditions: %s. Always consider safety.",
			strings.Join(uc.Injuries, ", "))
	}

	diet := "No dietary restrictions."
	if len(uc.DietaryRestrictions) > 0 {
		diet = "Dietary restrictions: " + strings.Join(uc.DietaryRestrictions, ", ")
	}

	equipment := "Equipment not specified."
	if len(uc.Equipment) > 0 {
		equipment = "Available equipment: " + strings.Join(uc.Equipment, ", ")
	}

	var sb strings.Builder
	sb.WriteString("You are Forma Coach, a premium personal fitness and nutrition coach for Egyptian and Arab users.\n")
	fmt.Fprintf(&sb, "You are speaking with %s, a Premium+ member who deserves exceptional, personalized service.\n\n", uc.FirstName)
	sb.WriteString(lang + "\n\n")

	sb.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", uc.FirstName)
	fmt.Fprintf(&sb, "- Goal: %s\n", goal)
	fmt.Fprintf(&sb, "- Fitness Level: %s\n", strings.ToLower(uc.FitnessLevel))
	fmt.Fprintf(&sb, "- Height: %s\n", orNotSet(uc.HeightCm, "cm"))
	fmt.Fprintf(&sb, "- Weight: %s\n", orNotSet(uc.CurrentWeightKg, "kg"))
	fmt.Fprintf(&sb, "- Target Weight: %s\n", orNotSet(uc.TargetWeightKg, "kg"))
	fmt.Fprintf(&sb, "- Gender: %s\n", orEmpty(uc.Gender, "not set"))
	fmt.Fprintf(&sb, "- Active Plan: %s\n", orEmpty(uc.ActivePlanName, "None"))
	fmt.Fprintf(&sb, "- Recent Workouts: %s\n", recent)
	sb.WriteString(injuries + "\n")
	sb.WriteString(diet + "\n")
	sb.WriteString(equipment + "\n\n")

	sb.WriteString(`STYLE RULES:
- Be friendly and casual, like a trusted gym buddy who happens to be a certified coach
- Match the user's language style (formal/casual, Arabic/English/Franco-Arab)
- Keep responses concise (2-4 paragraphs max unless they ask for detail)
- Use Egyptian Arabic expressions naturally when responding in Arabic
- Give specific, actionable advice, not generic filler
- Reference their actual profile data when relevant
- If you mention exercises, include brief form cues
- If you mention food, include approximate macros
- Always consider their injuries and restrictions
- Never recommend anything dangerous for their health conditions`)

	return sb.String()
}

func orNotSet(v float64, unit string) string {
	if v <= 0 {
		return "not set"
	}
	return fmt.Sprintf("%g%s", v, unit)
}

func orEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
