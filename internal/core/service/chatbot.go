package service

import (
	"fmt"
	"strings"
)

// ChatBot is the rule-based assistant: it matches lowercase substrings of
// the query against a fixed rule table, first match wins.
type ChatBot struct {
	rules []chatRule
}

type chatRule struct {
	topic    string
	keywords []string
	reply    string
}

const platformDescription = "MentorLink Sphere is a comprehensive e-learning platform that connects mentors and students, providing interactive courses, real-time sessions, and learning management features."

var platformFeatures = []string{
	"User Authentication & Role Management",
	"Course Management System",
	"Real-time Video Sessions",
	"Interactive Learning Materials",
	"Quiz & Assignment System",
	"Progress Tracking",
	"Certificate Generation",
	"Mentor-Student Matching",
	"Schedule Management",
	"Leaderboard System",
}

var platformServices = []string{
	"Authentication",
	"Course Updates",
	"Mentor Directory",
	"Video Sessions",
	"Chat Assistant",
}

// NewChatBot builds the assistant with its fixed rule table.
func NewChatBot() *ChatBot {
	features := bulleted(platformFeatures)
	services := bulleted(platformServices)

	// Rule order matters: "hi" is a substring of words like "which", so the
	// greeting rule is checked last.
	return &ChatBot{rules: []chatRule{
		{
			topic:    "project",
			keywords: []string{"project", "about", "info"},
			reply:    platformDescription + "\n\nKey Features:\n" + features,
		},
		{
			topic:    "features",
			keywords: []string{"feature", "what can", "capability"},
			reply:    "MentorLink Sphere offers these key features:\n" + features,
		},
		{
			topic:    "services",
			keywords: []string{"service", "api", "backend"},
			reply:    "The platform provides these services:\n" + services,
		},
		{
			topic:    "mentors",
			keywords: []string{"mentor", "teacher"},
			reply:    "Mentors publish courses, run live sessions, and post course updates. Browse the mentor directory to find one matching your interests.",
		},
		{
			topic:    "courses",
			keywords: []string{"course", "learn", "quiz", "assignment"},
			reply:    "Courses combine video lessons, reading material, quizzes, and assignments. Course updates appear in real time while you are enrolled.",
		},
		{
			topic:    "account",
			keywords: []string{"account", "register", "login", "password", "verify"},
			reply:    "Sign up with a username, email, and password, then confirm the verification link we mail you. Use the password-reset link if you get locked out.",
		},
		{
			topic:    "help",
			keywords: []string{"help", "assist", "guide"},
			reply:    "I can help you with information about:\n- Platform Overview\n- Features\n- Mentors\n- Courses\n- Your Account\n\nJust ask about any of these topics!",
		},
		{
			topic:    "greeting",
			keywords: []string{"hello", "hi", "hey"},
			reply:    "Hello! I'm your MentorLink Sphere assistant. I can help you learn about the platform, its features, and how to use it. What would you like to know?",
		},
	}}
}

// Reply returns the canned response for query and the topic that matched
// ("default" when no rule fired).
func (b *ChatBot) Reply(query string) (reply, topic string) {
	lowered := strings.ToLower(query)
	for _, rule := range b.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.reply, rule.topic
			}
		}
	}

	return fmt.Sprintf("I understand you're asking about %q. I can help you with information about the platform, its features, mentors, courses, or your account. What specific aspect would you like to know more about?", query), "default"
}

func bulleted(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}
