package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_CrisisShortCircuits(t *testing.T) {
	inputs := []string{
		"I want to kill myself",
		"sometimes I think about suicide",
		"I've been hurting myself lately",
		"I keep cutting myself",
		"I can't stop harming myself",
		"I've thought about ending my life",
		"there is no reason to live",
	}

	for _, input := range inputs {
		category, reply := Classify(input)
		assert.Equal(t, "crisis", category, "input: %q", input)
		assert.Equal(t, CrisisMessage, reply)
	}
}

func TestClassify_CrisisWinsOverOtherKeywords(t *testing.T) {
	// Contains anxiety and sleep keywords, but the crisis phrase must win.
	category, reply := Classify("I'm so anxious I can't sleep and I want to end my life")
	assert.Equal(t, "crisis", category)
	assert.Equal(t, CrisisMessage, reply)
}

func TestClassify_TopicBuckets(t *testing.T) {
	cases := map[string]string{
		"I've been feeling really anxious about work": "anxiety",
		"everything feels hopeless and empty":         "depression",
		"I'm completely burned out":                   "stress",
		"I have insomnia every night":                 "sleep",
		"my partner and I keep fighting":              "relationships",
		"I want to start a meditation habit":          "selfcare",
		"hello there":                                 "greeting",
	}

	for input, want := range cases {
		category, reply := Classify(input)
		assert.Equal(t, want, category, "input: %q", input)
		assert.NotEmpty(t, reply)
		assert.NotEqual(t, CrisisMessage, reply)
	}
}

func TestClassify_ReplyComesFromMatchedBucket(t *testing.T) {
	var anxietyResponses []string
	for _, bucket := range topicBuckets {
		if bucket.category == "anxiety" {
			anxietyResponses = bucket.responses
		}
	}

	// The pick is randomized; run enough times to cover the bucket.
	for i := 0; i < 50; i++ {
		_, reply := Classify("feeling very anxious today")
		assert.Contains(t, anxietyResponses, reply)
	}
}

func TestClassify_DefaultFallback(t *testing.T) {
	category, reply := Classify("the weather is quite mild this afternoon")
	assert.Equal(t, "general", category)
	assert.Contains(t, defaultResponses, reply)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	category, _ := Classify("I Have So Much ANXIETY")
	assert.Equal(t, "anxiety", category)
}
