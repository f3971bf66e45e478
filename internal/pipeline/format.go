package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/Abdellatifemara/Forma-sub000/internal/catalog"
	"github.com/Abdellatifemara/Forma-sub000/internal/profile"
)

func formatFoodResponse(foods []catalog.Food, query string, arabic bool) *Response {
	var header string
	if arabic {
		header = fmt.Sprintf("🥗 لقيت %d نتيجة لـ \"%s\":\n", len(foods), query)
	} else {
		plural := ""
		if len(foods) > 1 {
			plural = "s"
		}
		header = fmt.Sprintf("🥗 Found %d result%s for %q:\n", len(foods), plural, query)
	}

	lines := make([]string, 0, len(foods))
	for i, f := range foods {
		name := f.NameEn
		brand := f.BrandEn
		if arabic {
			name = f.NameAr
			if f.BrandAr != "" {
				brand = f.BrandAr
			}
		}
		if brand != "" {
			brand = fmt.Sprintf(" (%s)", brand)
		}
		lines = append(lines, fmt.Sprintf("%d. **%s**%s\n   %g%s → %.0f cal | %.0fg protein | %.0fg carbs | %.0fg fat",
			i+1, name, brand, f.ServingSizeG, f.ServingUnit,
			math.Round(f.Calories), math.Round(f.ProteinG), math.Round(f.CarbsG), math.Round(f.FatG)))
	}

	footer := "\n\nAsk me about any other food or need healthier alternatives!"
	if arabic {
		footer = "\n\nاسألني عن أي أكل تاني أو محتاج بدائل صحية!"
	}

	return &Response{
		Text:   header + strings.Join(lines, "\n\n") + footer,
		Source: SourceStructuredFood,
		Data:   &StructuredData{Foods: foods},
	}
}

func formatExerciseResponse(exercises []catalog.Exercise, arabic bool) *Response {
	if len(exercises) == 1 {
		return formatExerciseDetail(exercises[0], arabic, exercises)
	}

	var header string
	if arabic {
		header = fmt.Sprintf("🏋️ لقيت %d تمرين:\n\n", len(exercises))
	} else {
		header = fmt.Sprintf("🏋️ Found %d exercises:\n\n", len(exercises))
	}

	lines := make([]string, 0, len(exercises))
	for i, ex := range exercises {
		name := ex.NameEn
		if arabic {
			name = ex.NameAr
		}
		lines = append(lines, fmt.Sprintf("%d. **%s** — %s (%s)",
			i+1, name, muscleName(ex.PrimaryMuscle), strings.ToLower(ex.Difficulty)))
	}

	footer := "\n\nTell me the exercise number for more details!"
	if arabic {
		footer = "\n\nقولي رقم التمرين لو عايز تفاصيل أكتر!"
	}

	return &Response{
		Text:   header + strings.Join(lines, "\n") + footer,
		Source: SourceStructuredExercise,
		Data:   &StructuredData{Exercises: exercises},
	}
}

func formatExerciseDetail(ex catalog.Exercise, arabic bool, all []catalog.Exercise) *Response {
	name, desc := ex.NameEn, ex.DescriptionEn
	instructions, tips := ex.InstructionsEn, ex.TipsEn
	if arabic {
		name = ex.NameAr
		if ex.DescriptionAr != "" {
			desc = ex.DescriptionAr
		}
		if len(ex.InstructionsAr) > 0 {
			instructions = ex.InstructionsAr
		}
		if len(ex.TipsAr) > 0 {
			tips = ex.TipsAr
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏋️ **%s**\n", name)
	if desc != "" {
		sb.WriteString(desc + "\n\n")
	}

	label(&sb, arabic, "**العضلة الأساسية:** ", "**Primary muscle:** ")
	sb.WriteString(muscleName(ex.PrimaryMuscle) + "\n")
	label(&sb, arabic, "**المستوى:** ", "**Difficulty:** ")
	sb.WriteString(strings.ToLower(ex.Difficulty) + "\n")
	label(&sb, arabic, "**المعدات:** ", "**Equipment:** ")
	sb.WriteString(equipmentList(ex.Equipment) + "\n")

	reps := ex.DefaultReps
	if reps == "" {
		reps = "—"
	}
	fmt.Fprintf(&sb, "**%d sets × %s reps**\n", ex.DefaultSets, reps)

	if len(instructions) > 0 {
		label(&sb, arabic, "\n**الخطوات:**\n", "\n**How to do it:**\n")
		for i, step := range capSlice(instructions, 5) {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
		}
	}

	if len(tips) > 0 {
		label(&sb, arabic, "\n💡 **نصائح:**\n", "\n💡 **Tips:**\n")
		for _, tip := range capSlice(tips, 3) {
			fmt.Fprintf(&sb, "• %s\n", tip)
		}
	}

	if ex.YoutubeVideoID != "" {
		fmt.Fprintf(&sb, "\n📺 [Watch video](https://youtube.com/watch?v=%s)", ex.YoutubeVideoID)
	}

	return &Response{
		Text:   strings.TrimRight(sb.String(), "\n"),
		Source: SourceStructuredExercise,
		Data:   &StructuredData{Exercises: all},
	}
}

func formatFAQResponse(best catalog.FAQMatch, related []catalog.FAQMatch, arabic bool) *Response {
	var sb strings.Builder
	fmt.Fprintf(&sb, "❓ **%s**\n\n%s", best.Question, best.Answer)

	if len(related) > 0 {
		label(&sb, arabic, "\n\n---\nكمان أسئلة متعلقة:\n", "\n\n---\nRelated questions:\n")
		for i, r := range capSlice(related, 2) {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("• " + r.Question)
		}
	}

	matches := append([]catalog.FAQMatch{best}, related...)
	return &Response{
		Text:   sb.String(),
		Source: SourceStructuredFAQ,
		Data:   &StructuredData{FAQs: matches},
	}
}

func formatSupplementResponse(supplements []catalog.Food, arabic bool) *Response {
	header := "💊 **Supplements:**\n\n"
	if arabic {
		header = "💊 **المكملات:**\n\n"
	}

	lines := make([]string, 0, len(supplements))
	for i, s := range supplements {
		name := s.NameEn
		if arabic {
			name = s.NameAr
		}
		brand := ""
		if s.BrandEn != "" {
			brand = fmt.Sprintf(" (%s)", s.BrandEn)
		}
		lines = append(lines, fmt.Sprintf("%d. **%s**%s\n   %g%s → %.0f cal, %.0fg protein",
			i+1, name, brand, s.ServingSizeG, s.ServingUnit,
			math.Round(s.Calories), math.Round(s.ProteinG)))
	}

	return &Response{
		Text:   header + strings.Join(lines, "\n\n"),
		Source: SourceStructuredFood,
		Data:   &StructuredData{Foods: supplements},
	}
}

func formatProgramResponse(programs []catalog.Program, arabic bool) *Response {
	if len(programs) == 0 {
		text := "💪 No preset programs available right now. Upgrade to Premium+ for a fully customized plan!"
		if arabic {
			text = "💪 معندناش برامج جاهزة دلوقتي. اشترك في Premium+ وهنصمملك برنامج مخصص ليك!"
		}
		return &Response{Text: text, Source: SourceStructuredProgram}
	}

	header := "💪 **Suggested workout programs for you:**\n\n"
	if arabic {
		header = "💪 **برامج تمارين مقترحة ليك:**\n\n"
	}

	lines := make([]string, 0, len(programs))
	for i, p := range programs {
		name := p.NameEn
		desc := p.DescriptionEn
		if arabic {
			if p.NameAr != "" {
				name = p.NameAr
			}
			if p.DescriptionAr != "" {
				desc = p.DescriptionAr
			}
		}
		if runes := []rune(desc); len(runes) > 100 {
			desc = string(runes[:100]) + "..."
		}
		lines = append(lines, fmt.Sprintf("%d. **%s** (%d weeks)\n   %s", i+1, name, p.DurationWeeks, desc))
	}

	footer := "\n\nTell me the program number for more details!"
	if arabic {
		footer = "\n\nقولي رقم البرنامج لو عايز تفاصيل!"
	}

	return &Response{
		Text:   header + strings.Join(lines, "\n\n") + footer,
		Source: SourceStructuredProgram,
		Data:   &StructuredData{Programs: programs},
	}
}

func formatBroadExerciseResponse(exercises []catalog.Exercise, arabic bool) *Response {
	header := "🏋️ Related exercises:\n\n"
	if arabic {
		header = "🏋️ تمارين مرتبطة:\n\n"
	}

	lines := make([]string, 0, len(exercises))
	for i, ex := range exercises {
		name := ex.NameEn
		if arabic {
			name = ex.NameAr
		}
		lines = append(lines, fmt.Sprintf("%d. **%s** — %s (%s)",
			i+1, name, muscleName(ex.PrimaryMuscle), strings.ToLower(ex.Difficulty)))
	}

	return &Response{
		Text:   header + strings.Join(lines, "\n"),
		Source: SourceCurated,
		Data:   &StructuredData{Exercises: exercises},
	}
}

func genericCuratedResponse(uc *profile.UserContext, arabic bool) *Response {
	goal := strings.ToLower(strings.ReplaceAll(uc.FitnessGoal, "_", " "))
	if goal == "" {
		goal = "fitness"
	}

	var text string
	if arabic {
		text = fmt.Sprintf("%s، سؤال حلو! بالنسبة لهدفك (%s)، أقدر أساعدك بالتالي:\n\n", uc.FirstName, goal) +
			"• اسألني عن أي **أكل** وهقولك السعرات والماكروز\n" +
			"• اسألني عن أي **تمرين** وهوريك ازاي تعمله صح\n" +
			"• اكتب \"**برنامج**\" وهقترحلك برامج تمارين\n\n" +
			"أو اشترك في **Premium+** لمحادثات ذكية مخصصة ليك!"
	} else {
		text = fmt.Sprintf("%s, great question! For your %s goal, I can help with:\n\n", uc.FirstName, goal) +
			"• Ask about any **food** and I'll show you calories & macros\n" +
			"• Ask about any **exercise** and I'll show you how to do it\n" +
			"• Type \"**program**\" and I'll suggest workout programs\n\n" +
			"Or upgrade to **Premium+** for fully personalized AI coaching!"
	}

	return &Response{Text: text, Source: SourceCurated}
}

func tierGateResponse(arabic bool) *Response {
	text := "🔒 For personalized AI coaching answers, upgrade to Premium! Try a free week."
	if arabic {
		text = "🔒 للحصول على إجابات مخصصة من مدربك الذكي، اشترك في الباقة المميزة! جرّب أسبوع مجاني."
	}
	return &Response{Text: text, Source: SourceQuotaGate}
}

func quotaExceededResponse(limit int, arabic bool) *Response {
	var text string
	if arabic {
		text = fmt.Sprintf("⏳ خلصت استفساراتك اليومية (%d). ارجعلي بكرة أو اشترك في باقة أعلى!", limit)
	} else {
		text = fmt.Sprintf("⏳ You've used all %d of today's coaching queries. Come back tomorrow or upgrade your plan!", limit)
	}
	zero := 0
	return &Response{Text: text, Source: SourceQuotaGate, RemainingQuota: &zero, DailyLimit: &limit}
}

func modelFailureResponse(arabic bool) *Response {
	text := "Sorry, there's a technical issue right now. Please try again in a moment."
	if arabic {
		text = "عذراً، في مشكلة تقنية دلوقتي. جرب تاني كمان شوية."
	}
	return &Response{Text: text, Source: SourceModel}
}

func label(sb *strings.Builder, arabic bool, ar, en string) {
	if arabic {
		sb.WriteString(ar)
	} else {
		sb.WriteString(en)
	}
}

func muscleName(raw string) string {
	return strings.ToLower(strings.ReplaceAll(raw, "_", " "))
}

func equipmentList(equipment []string) string {
	if len(equipment) == 0 {
		return "bodyweight"
	}
	parts := make([]string, 0, len(equipment))
	for _, e := range equipment {
		parts = append(parts, strings.ToLower(strings.ReplaceAll(e, "_", " ")))
	}
	return strings.Join(parts, ", ")
}

func capSlice[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
