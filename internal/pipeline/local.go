package pipeline

import (
	"regexp"
)

// Whole-string intent patterns, mirroring the mobile client so the
// server answers the same chit-chat the app recognizes. They cover
// English, Arabic, and Franco-Arab spellings.
var (
	greetingPattern = regexp.MustCompile(`(?i)^(h+i+|hey+|hello+|yo+|sup|what'?s? ?up|ahla+|salam|marhaba|3aml ?eh|ازيك|هاي|سلام|اهلا|مرحبا|صباح الخير|مساء الخير|صباح النور|مساء النور|يا +(من|باشا|برو|حبيبي)|hola|oi|howdy)[\s!?.]*$`)

	thanksByePattern = regexp.MustCompile(`(?i)^(thanks?|thank ?you|thx|ty|shukran|bye+|goodbye|see ?ya|later|cya|yalla|peace|salam|salaam|مع السلامة|شكرا|تسلم|يلا|باي|مشكور|الله يسلمك)[\s!?.]*$`)

	helpPattern = regexp.MustCompile(`(?i)^(help|what can you do|what do you do|ايه ده|eh ?da|commands|features|capabilities|how does this work|ممكن تساعدني|تعمل ايه|بتعمل ايه)[\s!?.]*$`)
)

// Extraction patterns for structured intents.
var (
	foodPattern = regexp.MustCompile(`(?i)(?:how many|calories|protein|carbs?|fat|macro|nutrition|سعرات|بروتين|كارب|دهون)\s+(?:in|of|for|في|فى)\s+(.+)|(?:what(?:'s| is) (?:in|the (?:calories|nutrition|macros) (?:of|in|for)))\s+(.+)|(.+?)\s+(?:calories|protein|nutrition|macros|سعرات|كام سعر)`)

	exercisePattern = regexp.MustCompile(`(?i)(?:how (?:to|do)|what (?:is|are)|show me|teach me|explain)\s+(.+?)\s*(?:exercise|workout|form|technique)?$|(?:ازاي|ايه هو?|عايز|ابغى)\s+(?:تمرين|تمارين)\s+(.+)`)

	programPattern = regexp.MustCompile(`(?i)(?:give me|i (?:want|need)|suggest|recommend|create|make|عايز|ابغى|محتاج)\s+(?:a |an )?(?:workout|program|plan|routine|split|تمرين|برنامج|خطة)`)

	supplementPattern = regexp.MustCompile(`(?i)(?:supplement|creatine|protein powder|whey|bcaa|pre.?workout|مكمل|كرياتين|واي بروتين|بي سي ايه)`)
)

var greetingResponsesEn = []string{
	"Hey! 💪 What's up? Need help with workouts, nutrition, or anything fitness?",
	"Ahla! Ready to crush it today? What do you need?",
	"Yo! Your Forma Coach is here. What can I help you with?",
	"Hey there! Whether it's workouts, food, or supplements, I got you.",
	"What's good! Ready to help with whatever you need. Workouts, nutrition, you name it.",
}

var greetingResponsesAr = []string{
	"اهلا! 💪 محتاج مساعدة في التمارين أو التغذية؟",
	"يا هلا! جاهز تكسر الدنيا النهارده؟ قولي محتاج ايه",
	"أهلاً وسهلاً! كوتشك هنا. محتاج ايه؟",
	"سلام! 🔥 قولي بتشتغل على ايه وهساعدك",
	"أهلاً! سواء تمارين أو أكل أو مكملات، أنا معاك",
}

var thanksResponsesEn = []string{
	"Anytime! Keep pushing 💪",
	"You got this! Come back whenever you need me.",
	"No problem! Remember, consistency beats intensity. See you next time!",
	"Yalla, go crush it! I'm here whenever you need. ✌️",
}

var thanksResponsesAr = []string{
	"في أي وقت! كمّل 💪",
	"انت تقدر! ارجعلي في أي وقت",
	"ولا يهمك! فاكر، الاستمرارية أهم من الشدة. أشوفك! ✌️",
	"يلا كسّر! أنا هنا لما تحتاجني",
}

const helpResponseEn = `Here's what I can help you with:

🏋️ **Workouts** — Ask me for workout plans, exercise tips, or form advice
🥗 **Nutrition** — Ask about calories, macros, Egyptian foods, or meal plans
💊 **Supplements** — What to take, when, and what actually works
📊 **Progress** — Track your weight and measurements
🔍 **Search** — Ask about any food or exercise and I'll find it for you

Just type your question naturally — English, Arabic, Franco, whatever you're comfortable with!`

const helpResponseAr = `إليك ما أقدر أساعدك فيه:

🏋️ **التمارين** — اسألني عن برامج تمارين أو نصائح أداء
🥗 **التغذية** — اسأل عن السعرات، الماكروز، الأكل المصري، أو خطط الوجبات
💊 **المكملات** — إيه اللي تاخده ومتى وإيه اللي بيفرق فعلاً
📊 **التقدم** — تابع وزنك وقياساتك
🔍 **البحث** — اسأل عن أي أكل أو تمرين وهلاقيهولك

اكتب سؤالك عادي — إنجليزي، عربي، فرانكو، زي ما تحب!`

// localMatch answers chit-chat without touching quota or storage.
// pick chooses a pool index; it is injected so tests are
// deterministic. Returns nil when no whole-string pattern applies.
func localMatch(text string, arabic bool, pick func(n int) int) *Response {
	if greetingPattern.MatchString(text) {
		pool := greetingResponsesEn
		if arabic {
			pool = greetingResponsesAr
		}
		return &Response{Text: pool[pick(len(pool))], Source: SourceLocal}
	}

	if thanksByePattern.MatchString(text) {
		pool := thanksResponsesEn
		if arabic {
			pool = thanksResponsesAr
		}
		return &Response{Text: pool[pick(len(pool))], Source: SourceLocal}
	}

	if helpPattern.MatchString(text) {
		help := helpResponseEn
		if arabic {
			help = helpResponseAr
		}
		return &Response{Text: help, Source: SourceLocal}
	}

	return nil
}

// extractFoodQuery pulls the food name out of a nutrition question.
func extractFoodQuery(text string) string {
	m := foodPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, group := range m[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}

// extractExerciseQuery pulls the exercise name out of a how-to question.
func extractExerciseQuery(text string) string {
	m := exercisePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, group := range m[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}
