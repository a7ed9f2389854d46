package services

import (
	"math/rand"
	"strings"
)

// CrisisMessage is returned verbatim whenever a crisis phrase is detected,
// regardless of any other keyword match.
const CrisisMessage = "I'm really sorry you're feeling this way. You are not alone, and you deserve support right now. " +
	"Please reach out to a crisis line immediately — in the US you can call or text 988 (Suicide & Crisis Lifeline), " +
	"or text HOME to 741741. If you are in immediate danger, please call your local emergency number. " +
	"Would you also consider booking a session with one of our therapists?"

// responseBucket pairs a keyword set with its canned responses.
// Buckets are checked in order; the first keyword hit wins.
type responseBucket struct {
	category  string
	keywords  []string
	responses []string
}

var crisisKeywords = []string{
	"suicide", "suicidal", "kill myself", "killing myself", "end my life",
	"ending my life", "want to die", "hurt myself", "hurting myself",
	"harm myself", "harming myself", "cut myself", "cutting myself",
	"self harm", "self-harm", "no reason to live", "better off dead",
}

var topicBuckets = []responseBucket{
	{
		category: "anxiety",
		keywords: []string{"anxiety", "anxious", "panic", "worried", "worry", "nervous", "overwhelmed"},
		responses: []string{
			"Anxiety can feel overwhelming, but it is manageable. Try grounding yourself: name 5 things you can see, 4 you can touch, 3 you can hear, 2 you can smell, and 1 you can taste.",
			"When anxiety rises, slow breathing helps: inhale for 4 counts, hold for 4, exhale for 6. Would you like to tell me more about what's making you anxious?",
			"It sounds like anxiety is weighing on you. Naming the specific worry often shrinks it — what's the thought that keeps coming back?",
		},
	},
	{
		category: "depression",
		keywords: []string{"depressed", "depression", "hopeless", "empty", "worthless", "numb", "no energy"},
		responses: []string{
			"I'm sorry you're feeling this way. Depression can make everything feel heavy. Small steps count — even getting out of bed or taking a short walk is a win.",
			"Those feelings are real and valid. You don't have to carry them alone — talking to one of our therapists could really help. Is there one small thing that used to bring you joy?",
			"Thank you for sharing that with me. Low moods can distort how we see ourselves. What you're feeling now is not a fact about your worth.",
		},
	},
	{
		category: "stress",
		keywords: []string{"stress", "stressed", "pressure", "burnout", "burned out", "exhausted"},
		responses: []string{
			"Stress builds up quietly. Try listing what's on your plate, then marking what's actually urgent — often it's less than it feels.",
			"It sounds like a lot is on you right now. Short breaks, even five minutes away from screens, genuinely lower stress hormones. What's the biggest pressure today?",
			"Burnout is your body asking for rest, not a personal failure. What would letting one thing slip this week look like?",
		},
	},
	{
		category: "sleep",
		keywords: []string{"sleep", "insomnia", "can't sleep", "cant sleep", "awake", "nightmare", "tired"},
		responses: []string{
			"Sleep troubles are exhausting. A consistent wind-down routine helps: dim lights, no screens for 30 minutes, and the same bedtime each night.",
			"If your mind races at night, try writing tomorrow's worries down before bed — it tells your brain it can let go of them for now.",
			"Poor sleep and stress feed each other. How many hours are you managing lately?",
		},
	},
	{
		category: "relationships",
		keywords: []string{"relationship", "partner", "breakup", "break up", "lonely", "alone", "friend", "family", "divorce"},
		responses: []string{
			"Relationship pain cuts deep because connection matters so much to us. Do you want to talk about what happened?",
			"Feeling lonely is hard, and it's more common than it seems. Reaching out — even this conversation — is a real step.",
			"Conflict with people we care about is draining. Sometimes writing out what you wish you could say helps clarify what you actually need.",
		},
	},
	{
		category: "selfcare",
		keywords: []string{"self care", "self-care", "meditation", "meditate", "exercise", "routine", "habit", "journal"},
		responses: []string{
			"Building a self-care routine is a great goal. Start tiny: two minutes of breathing or a short walk beats an ambitious plan you can't keep.",
			"Journaling even a few lines a day helps untangle thoughts. Would you like to start with how today went?",
			"Movement, sunlight, and regular meals are the unglamorous foundations of feeling better. Which one is easiest for you to add this week?",
		},
	},
	{
		category: "greeting",
		keywords: []string{"hello", "hi ", "hey", "good morning", "good evening", "thank", "thanks"},
		responses: []string{
			"Hello! I'm here to listen. How are you feeling today?",
			"Hi there. This is a safe space — what's on your mind?",
			"You're welcome. I'm glad to be here with you. Anything else you'd like to talk through?",
		},
	},
}

var defaultResponses = []string{
	"I hear you. Can you tell me a bit more about how that makes you feel?",
	"Thank you for sharing. What do you think is behind that feeling?",
	"I'm here to listen. How long have you been feeling this way?",
	"That sounds important. Would you like to explore it together, or would booking a session with a therapist help?",
}

// Classify maps free text to a response category and a canned reply.
// Crisis phrases are checked first and short-circuit unconditionally.
// Pure function apart from the randomized pick within a bucket.
func Classify(input string) (category, reply string) {
	lowered := strings.ToLower(input)

	for _, kw := range crisisKeywords {
		if strings.Contains(lowered, kw) {
			return "crisis", CrisisMessage
		}
	}

	for _, bucket := range topicBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lowered, kw) {
				return bucket.category, pick(bucket.responses)
			}
		}
	}

	return "general", pick(defaultResponses)
}

func pick(responses []string) string {
	return responses[rand.Intn(len(responses))]
}
